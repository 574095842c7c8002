package controllers

import (
	"net/http"

	"github.com/dromero/devicestore-backend/api/responses"
	"github.com/dromero/devicestore-backend/pkg/config"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
	"github.com/dromero/devicestore-backend/pkg/logger"
	"github.com/dromero/devicestore-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DeviceStore-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the process can serve traffic: Redis must answer a
// ping. The remote catalog and sales services are not probed here; their
// failures surface per-request instead.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-DeviceStore-Env", cfg.App.Env)

		if redisClient == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "redis not configured"))
			return
		}
		if err := redisClient.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
