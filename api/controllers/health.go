package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

const envHeader = "X-Nexora-Env"

// Pinger reports whether session persistence is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
	BackendName() string
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if storage == nil {
			responses.WriteSuccess(w, map[string]string{"status": "ready"})
			return
		}
		if err := storage.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session storage unavailable").
				WithDetails(map[string]string{"storage": storage.BackendName()}))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "storage": storage.BackendName()})
	}
}
