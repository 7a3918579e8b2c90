package middleware

import (
	"net/http"

	"github.com/kvarga/webshop-backend/api/responses"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
	"github.com/kvarga/webshop-backend/pkg/logger"
)

const adminRequiredMessage = "Unauthorized. Admin access required."

// RequireAdmin gates a subtree to authenticated admin users. It assumes Auth
// already ran and seeded the context.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, adminRequiredMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
