package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/dromero/devicestore-backend/api/routes"
	"github.com/dromero/devicestore-backend/internal/catalog"
	"github.com/dromero/devicestore-backend/internal/purchase"
	"github.com/dromero/devicestore-backend/internal/selection"
	"github.com/dromero/devicestore-backend/pkg/config"
	"github.com/dromero/devicestore-backend/pkg/logger"
	"github.com/dromero/devicestore-backend/pkg/metrics"
	"github.com/dromero/devicestore-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	// Money fields serialize as JSON numbers, matching the remote services.
	decimal.MarshalJSONWithoutQuotes = true

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	catalogClient, err := catalog.NewClient(context.Background(), cfg.Catalog, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	selectionStore, err := selection.NewRedisStore(redisClient, cfg.Session.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create selection store", err)
		os.Exit(1)
	}

	selectionService, err := selection.NewService(selectionStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create selection service", err)
		os.Exit(1)
	}

	salesClient, err := purchase.NewClient(context.Background(), cfg.Sales, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales client", err)
		os.Exit(1)
	}

	purchaseService, err := purchase.NewService(purchase.ServiceParams{
		Devices:   catalogService,
		Selection: selectionService,
		Submitter: salesClient,
		Lock:      redisClient,
		LockTTL:   cfg.Session.SubmitLockTTL,
		Metrics:   storefrontMetrics,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			Redis:     redisClient,
			Catalog:   catalogService,
			Selection: selectionService,
			Purchase:  purchaseService,
			Metrics:   storefrontMetrics,
			Registry:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
