package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foxafamily/community/internal/app"
	"github.com/foxafamily/community/internal/infra"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.MigrateOnStart {
		if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	rdb := infra.NewRedisClient(ctx, cfg.RedisURL, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	router, services := app.NewRouter(app.RouterDeps{
		Pool:               pool,
		Redis:              rdb,
		Producer:           producer,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CacheTTL:           time.Duration(cfg.CacheTTLSecs) * time.Second,
		LoginRateLimit:     cfg.LoginRateLimit,
		LoginRateWindow:    time.Duration(cfg.LoginRateWindow) * time.Second,
	})

	// Background sweep of expired sessions. Lookup-time expiry stays
	// authoritative; this only keeps the table from growing unbounded.
	if cfg.SessionSweepMins > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.SessionSweepMins) * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					n, err := services.Sessions.SweepExpired(ctx)
					if err != nil {
						logger.Warn("session sweep failed", "error", err)
						continue
					}
					if n > 0 {
						logger.Info("expired sessions removed", "count", n)
					}
				}
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
