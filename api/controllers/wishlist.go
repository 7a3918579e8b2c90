package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kvarga/webshop-backend/api/middleware"
	"github.com/kvarga/webshop-backend/api/responses"
	"github.com/kvarga/webshop-backend/api/validators"
	"github.com/kvarga/webshop-backend/internal/wishlist"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
	"github.com/kvarga/webshop-backend/pkg/logger"
)

const wishlistNotFoundMessage = "Wishlist item not found"

type wishlistAddResponse struct {
	Message  string `json:"message"`
	Wishlist any    `json:"wishlist"`
}

func requesterFromContext(r *http.Request) (wishlist.Requester, error) {
	raw := middleware.UserIDFromContext(r.Context())
	userID, err := uuid.Parse(raw)
	if err != nil {
		return wishlist.Requester{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Token is invalid or expired")
	}
	return wishlist.Requester{
		UserID:  userID,
		IsAdmin: middleware.IsAdminFromContext(r.Context()),
	}, nil
}

// WishlistList returns the caller's wishlist as a bare array.
func WishlistList(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		req, err := requesterFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListOwn(r.Context(), req.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, items)
	}
}

// WishlistAdd adds a product to the caller's wishlist.
func WishlistAdd(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		req, err := requesterFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body wishlist.AddEntryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Add(r.Context(), req.UserID, body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSONStatus(w, http.StatusCreated, wishlistAddResponse{
			Message:  "Product added to wishlist",
			Wishlist: entry,
		})
	}
}

// WishlistGet returns a single wishlist entry, honoring ownership.
func WishlistGet(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		req, err := requesterFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, ok := validators.UUIDParam(r, "id")
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, wishlistNotFoundMessage))
			return
		}

		entry, err := svc.Get(r.Context(), req, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, entry)
	}
}

// WishlistRemove soft deletes a wishlist entry, honoring ownership.
func WishlistRemove(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		req, err := requesterFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, ok := validators.UUIDParam(r, "id")
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, wishlistNotFoundMessage))
			return
		}

		if err := svc.Remove(r.Context(), req, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Product removed from wishlist (soft delete)")
	}
}

// WishlistListAll returns every active wishlist entry with its owner. Admin only.
func WishlistListAll(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		items, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, items)
	}
}

// WishlistListForUser returns a specific user's wishlist. Admin only.
func WishlistListForUser(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		userID, ok := validators.UUIDParam(r, "userId")
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage))
			return
		}

		items, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, items)
	}
}
