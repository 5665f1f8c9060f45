package controllers

import (
	"context"
	"net/http"

	"github.com/casakiran/storefront-backend/api/responses"
	"github.com/casakiran/storefront-backend/pkg/config"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/casakiran/storefront-backend/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CasaKiran-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every registered dependency and fails fast on the
// first one that is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, probes map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CasaKiran-Env", cfg.App.Env)

		for name, probe := range probes {
			if probe == nil {
				continue
			}
			if err := probe.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable").
						WithDetails(map[string]any{"dependency": name}))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
