// Package main is the entry point for the Pureland travel API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/cache"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/config"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/handler"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/middleware"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/repo"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/service"
	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/migrations"
)

// cacheNamespace prefixes every listing cache key written by this server.
const cacheNamespace = "pureland:"

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env is normal in production; real env vars take over.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use the default stderr logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.AutoMigrate {
		sqlDB := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(ctx, sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", applied)
	}

	ready := map[string]handler.Pinger{"postgres": pool}

	// --- Cache ------------------------------------------------------------
	// The listing cache is optional. Without REDIS_ADDR every read hits Postgres.
	var listings service.ListingCache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()

		l := cache.NewListing(client, cacheNamespace, cfg.Redis.TTL)
		listings = l
		ready["redis"] = l
		slog.Info("listing cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	// --- Services ---------------------------------------------------------
	tx := repo.NewTxManager(pool)
	srv := handler.NewServer(handler.Services{
		Explore:  service.NewExploreDestinationService(tx, repo.NewExploreDestinationRepo(pool), listings),
		Trending: service.NewTrendingDestinationService(tx, repo.NewTrendingDestinationRepo(pool), listings),
		Agents:   service.NewAgentService(tx, repo.NewAgentRepo(pool)),
		Bookings: service.NewBookingService(repo.NewBookingRepo(pool)),
		Ready:    ready,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → Metrics → CORS → MaxBodySize.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP, which the
	// rate limiter keys on.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", srv.Routes(handler.Guards{
		Admin:       middleware.AdminOnly(cfg.JWTSecret),
		PublicWrite: limiter.Handler,
	}))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newLogger builds the JSON slog logger. LOG_OUTPUT=file rotates through
// lumberjack; "both" also copies lines to stdout.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.Log.Output == "file" || cfg.Log.Output == "both" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		}
		out = rotating
		if cfg.Log.Output == "both" {
			out = io.MultiWriter(os.Stdout, rotating)
		}
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
