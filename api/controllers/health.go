package controllers

import (
	"context"
	"net/http"

	"github.com/kvarga/webshop-backend/api/responses"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
	"github.com/kvarga/webshop-backend/pkg/logger"
)

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness once the backing stores answer.
func HealthReady(deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteJSON(w, map[string]string{"status": "ready"})
	}
}
