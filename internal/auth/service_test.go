package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvarga/webshop-backend/internal/users"
	pkgAuth "github.com/kvarga/webshop-backend/pkg/auth"
	"github.com/kvarga/webshop-backend/pkg/config"
	"github.com/kvarga/webshop-backend/pkg/db/models"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
	"github.com/kvarga/webshop-backend/pkg/security"
)

type stubUserRepo struct {
	user    *models.User
	taken   bool
	created *users.CreateUserDTO
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = &dto
	return &models.User{
		ID:           uuid.New(),
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		IsAdmin:      dto.IsAdmin,
	}, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return s.taken, nil
}

type stubSessionManager struct {
	established []string
	revoked     []string
}

func (s *stubSessionManager) Establish(ctx context.Context, accessID string, userID uuid.UUID) error {
	s.established = append(s.established, accessID)
	return nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "webshop",
		ExpirationMinutes: 30,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, repo *stubUserRepo) (Service, *stubSessionManager) {
	t.Helper()
	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions
}

func TestServiceRegisterCreatesNonAdmin(t *testing.T) {
	repo := &stubUserRepo{}
	svc, _ := buildTestService(t, repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:                 "Test User",
		Email:                "Test@Example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.IsAdmin {
		t.Fatal("registered user must not be admin")
	}
	if user.Email != "test@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if repo.created == nil || repo.created.PasswordHash == "password123" {
		t.Fatal("password must be stored hashed")
	}
}

func TestServiceRegisterRejectsTakenEmail(t *testing.T) {
	repo := &stubUserRepo{taken: true}
	svc, _ := buildTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:                 "Dup",
		Email:                "dup@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("expected field-level details on duplicate email")
	}
}

func TestServiceLoginSuccess(t *testing.T) {
	password := "password123"
	repo := &stubUserRepo{user: &models.User{
		ID:           uuid.New(),
		Name:         "Login User",
		Email:        "login@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsAdmin:      true,
	}}
	svc, sessions := buildTestService(t, repo)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.TokenType != "bearer" {
		t.Fatalf("expected bearer token type, got %q", result.TokenType)
	}
	if result.ExpiresIn != 30*60 {
		t.Fatalf("expected 1800s expiry, got %d", result.ExpiresIn)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != repo.user.ID {
		t.Fatalf("token user mismatch")
	}
	if !claims.IsAdmin {
		t.Fatal("admin flag lost in claims")
	}
	if len(sessions.established) != 1 || sessions.established[0] != claims.ID {
		t.Fatalf("expected session keyed by jti %q, got %v", claims.ID, sessions.established)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	repo := &stubUserRepo{user: &models.User{
		ID:           uuid.New(),
		Email:        "login@example.com",
		PasswordHash: mustHashPassword(t, "correct-password"),
	}}
	svc, _ := buildTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginUnknownEmail(t *testing.T) {
	repo := &stubUserRepo{}
	svc, _ := buildTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "missing@example.com",
		Password: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	repo := &stubUserRepo{}
	svc, sessions := buildTestService(t, repo)

	if err := svc.Logout(context.Background(), "jti-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-123" {
		t.Fatalf("expected revoked jti, got %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}
