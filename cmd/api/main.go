package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/casakiran/storefront-backend/api/controllers"
	"github.com/casakiran/storefront-backend/api/routes"
	"github.com/casakiran/storefront-backend/internal/auth"
	"github.com/casakiran/storefront-backend/internal/cart"
	"github.com/casakiran/storefront-backend/internal/catalog"
	"github.com/casakiran/storefront-backend/internal/checkout"
	"github.com/casakiran/storefront-backend/internal/media"
	"github.com/casakiran/storefront-backend/pkg/auth/session"
	"github.com/casakiran/storefront-backend/pkg/config"
	"github.com/casakiran/storefront-backend/pkg/currency"
	"github.com/casakiran/storefront-backend/pkg/db"
	"github.com/casakiran/storefront-backend/pkg/logger"
	"github.com/casakiran/storefront-backend/pkg/metrics"
	"github.com/casakiran/storefront-backend/pkg/migrate"
	"github.com/casakiran/storefront-backend/pkg/redis"
	"github.com/casakiran/storefront-backend/pkg/storage/gcs"
	"github.com/casakiran/storefront-backend/pkg/whatsapp"
)

const shutdownTimeout = 15 * time.Second

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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	fmtr := currency.NewFormatter(cfg.Site)

	var catalogRepo catalog.Repository
	if cfg.Catalog.UseFixture() {
		catalogRepo = catalog.NewFixtureRepository()
		logg.Warn(context.Background(), "catalog running on the in-memory fixture")
	} else {
		catalogRepo = catalog.NewGormRepository(dbClient.DB())
	}

	catalogService, err := catalog.NewService(catalogRepo, fmtr)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	var cartRepo cart.Repository
	if cfg.Cart.Persistence == config.CartPersistenceRedis {
		cartRepo, err = cart.NewRedisRepository(redisClient, cfg.Cart.TTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create cart repository", err)
			os.Exit(1)
		}
	} else {
		cartRepo = cart.NewMemoryRepository()
	}

	cartService, err := cart.NewService(cartRepo, catalogService, fmtr)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	waBuilder, err := whatsapp.NewBuilder(cfg.Site, fmtr)
	if err != nil {
		logg.Error(context.Background(), "failed to create whatsapp builder", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartRepo, catalogService, waBuilder, fmtr)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	adminRepo := auth.NewAdminUserRepository(dbClient)
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       adminRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	if !cfg.App.IsProd() {
		if err := auth.EnsureAdmin(context.Background(), adminRepo, cfg.Admin, cfg.Password, logg); err != nil {
			logg.Error(context.Background(), "failed to bootstrap admin user", err)
			os.Exit(1)
		}
	}

	probes := map[string]controllers.Pinger{
		"db":    dbClient,
		"redis": redisClient,
	}

	var mediaService media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create gcs client", err)
			os.Exit(1)
		}
		probes["gcs"] = gcsClient

		mediaService, err = media.NewService(gcsClient, cfg.Media)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, media uploads disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			probes,
			redisClient,
			sessionManager,
			registry,
			httpMetrics,
			catalogService,
			cartService,
			checkoutService,
			authService,
			mediaService,
		),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(logCtx, "error during shutdown", closeErr)
		os.Exit(1)
	}

	logg.Info(logCtx, "api server stopped")
}
