package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"quotehub/database"
	"quotehub/internal/config"
	"quotehub/internal/logging"
	"quotehub/internal/metrics"
	"quotehub/internal/microservices/http-api/gql"
	"quotehub/internal/microservices/http-api/handler"
	"quotehub/internal/microservices/http-api/middleware"
	"quotehub/internal/microservices/http-api/repository"
	"quotehub/internal/microservices/http-api/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	var cache repository.TopQuotesCache = repository.NopTopQuotesCache{}
	if cfg.RedisURL != "" {
		redisCache, client, err := repository.NewRedisTopQuotesCache(ctx, cfg.RedisURL, cfg.TopQuotesCacheTTL)
		if err != nil {
			// random selection still works without the cache, just slower
			logger.Warn("redis unavailable, top quotes cache disabled", slog.Any("error", err))
		} else {
			cache = redisCache
			defer closeRedis(client, logger)
			logger.Info("Connected to Redis", slog.String("addr", client.Options().Addr))
		}
	}

	var (
		recorder  metrics.Recorder = metrics.Nop{}
		collector *metrics.Collector
	)
	if cfg.PrometheusEnabled {
		collector = metrics.NewCollector()
		recorder = collector
	}

	quoteService := service.NewQuoteService(repository.NewQuoteRepository(db), cache, nil, recorder, logger)
	authService := service.NewAuthService(repository.NewUserRepository(db), cfg, logger)

	schema, err := gql.NewSchema(gql.NewResolver(quoteService, authService, logger))
	if err != nil {
		return fmt.Errorf("failed to build graphql schema: %w", err)
	}

	limiter := middleware.NewIPRateLimiter(cfg.AuthRateLimit, 10*time.Minute, logger)
	defer limiter.Stop()

	deps := handler.RouterDeps{
		Logger:         logger,
		QuoteService:   quoteService,
		AuthService:    authService,
		GraphQL:        gql.NewHandler(schema, authService, logger),
		DB:             sqlDB,
		AuthLimiter:    limiter,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}
	if collector != nil {
		deps.Requests = collector
		deps.MetricsHandler = collector.Handler()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", slog.String("addr", srv.Addr), slog.String("env", cfg.GoEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func closeRedis(client *redis.Client, logger *slog.Logger) {
	if err := client.Close(); err != nil {
		logger.Error("failed to close redis client", slog.Any("error", err))
	}
}
