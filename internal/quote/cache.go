package quote

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// Cache stores recently fetched prices.
type Cache interface {
	Get(ctx context.Context, symbol string) (price float64, ok bool, err error)
	Set(ctx context.Context, symbol string, price float64, ttl time.Duration) error
}

// redisClient is the subset of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisCache keeps prices in Redis under "quote:<SYMBOL>" as decimal strings.
type RedisCache struct {
	client redisClient
}

// NewRedisCache connects to the Redis server at addr.
func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func cacheKey(symbol string) string {
	return "quote:" + symbol
}

// Get returns the cached price of symbol. A miss is reported with ok=false and no error.
func (c *RedisCache) Get(ctx context.Context, symbol string) (float64, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(symbol)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cached quote: %w", err)
	}

	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse cached quote %q: %w", val, err)
	}
	return price, true, nil
}

// Set caches price for ttl.
func (c *RedisCache) Set(ctx context.Context, symbol string, price float64, ttl time.Duration) error {
	val := strconv.FormatFloat(price, 'f', -1, 64)
	if err := c.client.Set(ctx, cacheKey(symbol), val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache quote: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedQuoter serves quotes from a Cache and falls through to another Quoter on a miss.
// Cache errors are logged and never fail a quote. Failed quotes are not cached.
type CachedQuoter struct {
	next  Quoter
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedQuoter wraps next with cache.
func NewCachedQuoter(next Quoter, cache Cache, ttl time.Duration, log zerolog.Logger) *CachedQuoter {
	return &CachedQuoter{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Quote implements Quoter.
func (q *CachedQuoter) Quote(ctx context.Context, symbol string) (float64, error) {
	price, ok, err := q.cache.Get(ctx, symbol)
	switch {
	case err != nil:
		q.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote cache read failed")
	case ok:
		q.log.Debug().Str("symbol", symbol).Float64("price", price).Msg("Quote served from cache")
		return price, nil
	}

	price, err = q.next.Quote(ctx, symbol)
	if err != nil {
		return 0, err
	}

	if err := q.cache.Set(ctx, symbol, price, q.ttl); err != nil {
		q.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote cache write failed")
	}
	return price, nil
}
