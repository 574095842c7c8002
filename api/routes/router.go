package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dromero/devicestore-backend/api/controllers"
	"github.com/dromero/devicestore-backend/api/middleware"
	"github.com/dromero/devicestore-backend/internal/catalog"
	"github.com/dromero/devicestore-backend/internal/purchase"
	"github.com/dromero/devicestore-backend/internal/selection"
	"github.com/dromero/devicestore-backend/pkg/config"
	"github.com/dromero/devicestore-backend/pkg/logger"
	"github.com/dromero/devicestore-backend/pkg/metrics"
	"github.com/dromero/devicestore-backend/pkg/redis"
)

type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	Redis     redis.Pinger
	Catalog   catalog.Service
	Selection selection.Service
	Purchase  purchase.Service
	Metrics   *metrics.StorefrontMetrics
	Registry  *prometheus.Registry
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.Redis))
	})

	if cfg.Metrics.Enabled && params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", controllers.DeviceList(params.Catalog, logg))
			r.Get("/{deviceId}", controllers.DeviceDetail(params.Catalog, logg))
		})

		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Use(middleware.SessionContext(logg))
			r.Put("/options", controllers.SessionSelectOption(params.Catalog, params.Selection, params.Metrics, logg))
			r.Put("/addons/{addOnId}", controllers.SessionSetAddOn(params.Catalog, params.Selection, params.Metrics, logg))
			r.Get("/quote", controllers.SessionQuote(params.Catalog, params.Selection, params.Metrics, logg))
			r.Delete("/", controllers.SessionClear(params.Selection, logg))
			r.Post("/purchase", controllers.PurchaseSubmit(params.Purchase, logg))
		})
	})

	return r
}
