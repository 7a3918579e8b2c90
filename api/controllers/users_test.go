package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	usersvc "github.com/kvarga/webshop-backend/internal/users"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
)

func TestUsersUpdate(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubUserService{}
		body := `{"name":"Renamed"}`
		req := httptest.NewRequest(http.MethodPut, "/api/users/"+userID.String(), strings.NewReader(body))
		req = routeRequest(req, "id", userID.String())
		rec := httptest.NewRecorder()
		UsersUpdate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		var payload struct {
			Message string         `json:"message"`
			User    map[string]any `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload.Message != "User updated successfully" {
			t.Fatalf("unexpected message %q", payload.Message)
		}
		if stub.updated == nil || stub.updated.Name == nil || *stub.updated.Name != "Renamed" {
			t.Fatalf("unexpected update request: %+v", stub.updated)
		}
	})

	t.Run("taken email", func(t *testing.T) {
		err := pkgerrors.New(pkgerrors.CodeValidation, "Validation error")
		stub := &stubUserService{updateErr: err.WithDetails(map[string]string{"email": "The email has already been taken."})}
		body := `{"email":"taken@example.com"}`
		req := httptest.NewRequest(http.MethodPut, "/api/users/"+userID.String(), strings.NewReader(body))
		req = routeRequest(req, "id", userID.String())
		rec := httptest.NewRecorder()
		UsersUpdate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "The email has already been taken.") {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})
}

func TestUsersDelete(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubUserService{}
		req := httptest.NewRequest(http.MethodDelete, "/api/users/"+userID.String(), nil)
		req = routeRequest(req, "id", userID.String())
		rec := httptest.NewRecorder()
		UsersDelete(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "User deleted successfully (soft delete)") {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
		if stub.deletedID != userID {
			t.Fatalf("expected delete of %s got %s", userID, stub.deletedID)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		stub := &stubUserService{deleteErr: pkgerrors.New(pkgerrors.CodeNotFound, "User not found")}
		req := httptest.NewRequest(http.MethodDelete, "/api/users/"+userID.String(), nil)
		req = routeRequest(req, "id", userID.String())
		rec := httptest.NewRecorder()
		UsersDelete(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "User not found") {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})
}

func TestUsersRestore(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	stub := &stubUserService{}

	req := httptest.NewRequest(http.MethodPost, "/api/users/"+userID.String()+"/restore", nil)
	req = routeRequest(req, "id", userID.String())
	rec := httptest.NewRecorder()
	UsersRestore(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "User restored successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if stub.restoredID != userID {
		t.Fatalf("expected restore of %s got %s", userID, stub.restoredID)
	}
}

type stubUserService struct {
	updated    *usersvc.UpdateUserRequest
	updateErr  error
	deletedID  uuid.UUID
	deleteErr  error
	restoredID uuid.UUID
}

func (s *stubUserService) List(ctx context.Context) ([]usersvc.UserDTO, error) {
	return nil, nil
}

func (s *stubUserService) Get(ctx context.Context, id uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: id}, nil
}

func (s *stubUserService) Update(ctx context.Context, id uuid.UUID, req usersvc.UpdateUserRequest) (*usersvc.UserDTO, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updated = &req
	return &usersvc.UserDTO{ID: id}, nil
}

func (s *stubUserService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedID = id
	return nil
}

func (s *stubUserService) Restore(ctx context.Context, id uuid.UUID) (*usersvc.UserDTO, error) {
	s.restoredID = id
	return &usersvc.UserDTO{ID: id}, nil
}
