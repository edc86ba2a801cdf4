package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/serenatasalon/booking-api/internal/catalog"
	"github.com/serenatasalon/booking-api/internal/changefeed"
	appconfig "github.com/serenatasalon/booking-api/internal/config"
	"github.com/serenatasalon/booking-api/internal/observability/metrics"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildPool opens a pgx connection pool and verifies connectivity.
func BuildPool(ctx context.Context, cfg *appconfig.Config) (*pgxpool.Pool, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("bootstrap: DATABASE_URL required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping database: %w", err)
	}
	return pool, nil
}

// BuildCatalogCache wires the Redis-backed catalog cache. A nil Redis client
// degrades to uncached pass-through reads.
func BuildCatalogCache(source catalog.Repository, redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) *catalog.Cache {
	ttl := 5 * time.Minute
	if cfg != nil && cfg.CatalogCacheTTL > 0 {
		ttl = cfg.CatalogCacheTTL
	}
	return catalog.NewCache(source, redisClient, ttl, logger)
}

// BuildChangeFeed constructs the hub and the database listener that feeds it.
func BuildChangeFeed(cfg *appconfig.Config, m *metrics.BookingMetrics, logger *logging.Logger) (*changefeed.Hub, *changefeed.Listener) {
	hub := changefeed.NewHub(logger)
	listener := changefeed.NewListener(cfg.DatabaseURL, cfg.FeedChannel, cfg.FeedReconnectDelay, hub, m, logger)
	return hub, listener
}
