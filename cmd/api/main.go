package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/nexora-storefront/api/routes"
	"github.com/angelmondragon/nexora-storefront/internal/browse"
	"github.com/angelmondragon/nexora-storefront/internal/cart"
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/checkout"
	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/internal/search"
	"github.com/angelmondragon/nexora-storefront/internal/session"
	"github.com/angelmondragon/nexora-storefront/pkg/config"
	"github.com/angelmondragon/nexora-storefront/pkg/db"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/angelmondragon/nexora-storefront/pkg/migrate"
	"github.com/angelmondragon/nexora-storefront/pkg/redis"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogStore, err := loadCatalog(cfg.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefrontMetrics(reg)

	searchIndex := search.NewIndex(catalogStore, search.Options{
		TrendingTerms:    cfg.Search.TrendingTerms,
		SuggestLimit:     cfg.Search.SuggestLimit,
		MinDidYouMeanLen: cfg.Search.MinDidYouMeanN,
	})

	browseService, err := browse.NewService(browse.ServiceParams{
		Catalog:       catalogStore,
		Index:         searchIndex,
		Metrics:       storefrontMetrics,
		BrowseCap:     cfg.Search.BrowseCap,
		FallbackLimit: cfg.Search.FallbackLimit,
	})
	if err != nil {
		logg.Error(ctx, "failed to create browse service", err)
		os.Exit(1)
	}

	backend, closers, err := openBackend(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open session storage", err)
		os.Exit(1)
	}

	sessions := session.NewProvider(session.Params{
		Backend: backend,
		Pricing: cart.Pricing{
			TaxRate:               cfg.Pricing.TaxRate,
			FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
			ShippingFee:           cfg.Pricing.ShippingFee,
		},
		Notifier:  notifications.NewDispatcher(notifications.NewLogNotifier(logg)),
		Logger:    logg,
		Metrics:   storefrontMetrics,
		MaxCached: cfg.Session.MaxCached,
		MinIdle:   cfg.Session.MinIdle,
		Closers:   closers,
	})
	defer func() {
		if err := sessions.Close(); err != nil {
			logg.Error(context.Background(), "error closing session storage", err)
		}
	}()

	checkoutService := checkout.NewService(checkout.ServiceParams{
		ProcessingDelay: cfg.Checkout.ProcessingDelay,
		CouponDiscount:  cfg.Checkout.CouponDiscount,
		Logger:          logg,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"storage":  sessions.BackendName(),
		"products": len(catalogStore.All()),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, catalogStore, searchIndex, browseService, checkoutService, sessions,
			storefrontMetrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Store, error) {
	if cfg.Path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(cfg.Path)
}

// openBackend connects the configured session storage. The returned closers
// release the underlying connections.
func openBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Backend, []io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisBackend(redisClient, cfg.Redis.SessionTTL), []io.Closer{redisClient}, nil
	case config.StorageDriverSQL:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			_ = dbClient.Close()
			return nil, nil, err
		}
		return storage.NewSQLBackend(dbClient.DB()), []io.Closer{dbClient}, nil
	default:
		return storage.NewMemoryBackend(), nil, nil
	}
}
