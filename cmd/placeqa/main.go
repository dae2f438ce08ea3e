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

	"github.com/kailas-cloud/placeqa/internal/config"
	dbRedis "github.com/kailas-cloud/placeqa/internal/db/redis"
	logpkg "github.com/kailas-cloud/placeqa/internal/logger"
	"github.com/kailas-cloud/placeqa/internal/metrics"
	"github.com/kailas-cloud/placeqa/internal/repository/placecache"
	"github.com/kailas-cloud/placeqa/internal/transport/google"
	chiTransport "github.com/kailas-cloud/placeqa/internal/transport/chi"
	assessmentuc "github.com/kailas-cloud/placeqa/internal/usecase/assessment"
	healthuc "github.com/kailas-cloud/placeqa/internal/usecase/health"
	"github.com/kailas-cloud/placeqa/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting placeqa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Strings("categories", cfg.Places.Categories),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterDomainMetrics()

	// Base provider (with transport metrics built-in)
	base := google.NewClient(&google.Config{
		APIKey:     cfg.Places.APIKey,
		GeocodeURL: cfg.Places.GeocodeURL,
		NearbyURL:  cfg.Places.NearbyURL,
		Region:     cfg.Places.Region,
		Timeout:    time.Duration(cfg.Places.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	// Optional response cache. Pass a nil interface (not a typed nil pointer)
	// to the health service when caching is off.
	var provider assessmentuc.Provider = base
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Driver == config.CacheDriverRedis {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(context.Background(), readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))

		provider = placecache.New(base, store, placecache.Config{
			KeyPrefix:  cfg.Cache.KeyPrefix,
			GeocodeTTL: time.Duration(cfg.Cache.GeocodeTTLSec) * time.Second,
			NearbyTTL:  time.Duration(cfg.Cache.NearbyTTLSec) * time.Second,
		}, metrics.ProviderCacheTotal, logger)
		cachePinger = store
	}

	// Use case services
	assessSvc := assessmentuc.New(provider, assessmentuc.Options{
		RadiusMeters:  cfg.Places.RadiusMeters,
		Categories:    cfg.Places.Categories,
		Stagger:       time.Duration(cfg.Places.StaggerMs) * time.Millisecond,
		MaxWorkingSet: cfg.Analysis.MaxWorkingSet,
		IssuePreview:  cfg.Analysis.IssuePreview,
	})
	healthSvc := healthuc.New(cachePinger, base)

	// Create chi server
	server := chiTransport.NewServer(assessSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
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
