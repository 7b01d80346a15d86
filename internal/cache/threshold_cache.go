package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/omnistore/stock-ledger/internal/config"
	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

const (
	defaultThresholdTTL = 5 * time.Minute
	// noThresholdMarker caches "this variation has no configured
	// threshold" so misses do not hit the catalog every mutation.
	noThresholdMarker = "none"
)

// ThresholdCache fronts the catalog's threshold lookup with redis.
// Display info lookups pass through untouched.
type ThresholdCache struct {
	catalog repository.CatalogRepository
	client  *redis.Client
	ttl     time.Duration
}

func NewThresholdCache(cfg config.CacheConfig, catalog repository.CatalogRepository) (*ThresholdCache, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ThresholdTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultThresholdTTL
	}

	return &ThresholdCache{catalog: catalog, client: client, ttl: ttl}, nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func thresholdKey(variationID int64) string {
	return fmt.Sprintf("threshold:%d", variationID)
}

func (c *ThresholdCache) Threshold(ctx context.Context, variationID int64) (int, bool, error) {
	key := thresholdKey(variationID)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if cached == noThresholdMarker {
			return 0, false, nil
		}
		if threshold, convErr := strconv.Atoi(cached); convErr == nil {
			return threshold, true, nil
		}
	} else if err != redis.Nil {
		// Cache trouble must not block mutations; fall through to the catalog.
		log.Warn().Err(err).Int64("variation_id", variationID).Msg("threshold cache read failed")
	}

	threshold, ok, err := c.catalog.Threshold(ctx, variationID)
	if err != nil {
		return 0, false, err
	}

	value := noThresholdMarker
	if ok {
		value = strconv.Itoa(threshold)
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Int64("variation_id", variationID).Msg("threshold cache write failed")
	}

	return threshold, ok, nil
}

func (c *ThresholdCache) DisplayInfo(ctx context.Context, variationID int64) (*domain.VariationInfo, error) {
	return c.catalog.DisplayInfo(ctx, variationID)
}

// Close releases the redis connection.
func (c *ThresholdCache) Close() error {
	return c.client.Close()
}
