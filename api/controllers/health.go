package controllers

import (
	"context"
	"net/http"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/responses"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
)

// Pinger is anything the readiness check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bagzo-Env", cfg.App.Env)
		responses.WriteJSON(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bagzo-Env", cfg.App.Env)
		checks := map[string]string{}
		var failure error
		for name, p := range map[string]Pinger{"database": dbP, "redis": redisP} {
			if p == nil {
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				checks[name] = "down"
				failure = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(checks)
				continue
			}
			checks[name] = "up"
		}
		if failure != nil {
			responses.WriteError(r.Context(), logg, w, failure)
			return
		}
		responses.WriteJSON(w, map[string]any{"status": "ready", "checks": checks})
	}
}
