package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/config"
	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/catalogd/internal/db/redis"
	logpkg "github.com/kailas-cloud/catalogd/internal/logger"
	"github.com/kailas-cloud/catalogd/internal/metrics"
	"github.com/kailas-cloud/catalogd/internal/repository/cache"
	catalogrepo "github.com/kailas-cloud/catalogd/internal/repository/catalog"
	"github.com/kailas-cloud/catalogd/internal/repository/memory"
	chiTransport "github.com/kailas-cloud/catalogd/internal/transport/chi"
	"github.com/kailas-cloud/catalogd/internal/transport/gateway"
	cataloguc "github.com/kailas-cloud/catalogd/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/catalogd/internal/usecase/health"
	"github.com/kailas-cloud/catalogd/internal/version"
)

func main() {
	// .env is optional; real environment variables win over it.
	dotenvLoaded, dotenvErr := config.LoadDotEnv(".env")

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if dotenvErr != nil {
		logger.Warn("Failed to read .env", zap.Error(dotenvErr))
	}

	logger.Info("Starting catalogd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("dotenv", dotenvLoaded),
		zap.Bool("force_mock", cfg.ForceMock()),
	)

	metrics.RegisterCatalogMetrics()

	ctx := context.Background()

	// Pass nil interfaces (not typed nil pointers) for disabled sources.
	var primary, gatewaySrc cataloguc.Source
	components := map[string]healthuc.Pinger{}

	pg, err := postgres.NewStore(ctx, postgres.Config{
		URL:      cfg.Database.URL,
		Key:      cfg.Database.Key,
		MaxConns: cfg.Database.MaxConns,
	})
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		logger.Info("Structured-query backend not configured")
	case err != nil:
		logger.Warn("Failed to create structured-query store, skipping", zap.Error(err))
	default:
		defer pg.Close()
		logger.Info("Structured-query backend configured", zap.String("url", postgres.Redact(cfg.Database.URL)))

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := pg.WaitForReady(ctx, readiness); err != nil {
			// Kept in the chain: failures fall through to the next source per request.
			logger.Warn("Structured-query backend not ready", zap.Error(err))
		}

		repo := catalogrepo.New(pg,
			catalogrepo.WithTable(cfg.Database.Table),
			catalogrepo.WithPriceFunctions(cfg.Database.MinPriceFunc, cfg.Database.MaxPriceFunc),
		)
		primary = repo
		components["database"] = pg

		if kv := newCacheStore(cfg.Cache, logger); kv != nil {
			defer kv.Close()
			primary = cache.New(repo, kv, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.CacheTotal, logger)
			components["cache"] = kv
		}
	}

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: time.Duration(cfg.Gateway.TimeoutSec) * time.Second,
	})
	switch {
	case errors.Is(err, gateway.ErrNoBaseURL):
		logger.Info("Gateway not configured")
	case err != nil:
		logger.Warn("Failed to create gateway client, skipping", zap.Error(err))
	default:
		gatewaySrc = gw
		components["gateway"] = gw
	}

	catalogSvc := cataloguc.New(memory.NewSource(), logger,
		cataloguc.WithPrimary(primary),
		cataloguc.WithGateway(gatewaySrc),
		cataloguc.WithForceMock(cfg.ForceMock()),
		cataloguc.WithMaxPageSize(cfg.Catalog.MaxPageSize),
	)
	logger.Info("Catalog resolver ready", zap.Strings("chain", catalogSvc.Chain()))

	healthSvc := healthuc.New(components)

	server := chiTransport.NewServer(catalogSvc, healthSvc, logger).
		WithDefaultPageSize(cfg.Catalog.DefaultPageSize)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, r, badRequestHandler)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newCacheStore returns nil when the cache is disabled or cannot be created.
func newCacheStore(cfg config.CacheConfig, logger *zap.Logger) *dbRedis.Store {
	kv, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		return nil
	case err != nil:
		logger.Warn("Failed to create cache store, serving uncached", zap.Error(err))
		return nil
	}
	logger.Info("Response cache enabled", zap.Strings("addrs", cfg.Addrs), zap.Int("ttl_sec", cfg.TTLSec))
	return kv
}
