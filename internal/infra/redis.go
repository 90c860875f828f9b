package infra

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis for the settings cache. Returns nil when
// no URL is configured or the server is unreachable; callers treat a nil
// client as cache-disabled.
func NewRedisClient(ctx context.Context, url string, logger *slog.Logger) *redis.Client {
	if url == "" {
		logger.Info("redis disabled, settings cache off")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("invalid redis url, settings cache off", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, settings cache off", "error", err)
		_ = client.Close()
		return nil
	}

	logger.Info("redis connected", "url", url)
	return client
}
