// Package cache provides an optional redis-backed cache of normalized
// search listings, keyed per retailer and canonicalized query. Cache
// failures are logged and treated as misses so a redis outage never
// degrades search beyond losing the speedup.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopsync/shopsync/config"
	"github.com/shopsync/shopsync/internal/scrape"
	"github.com/shopsync/shopsync/models"
)

// Conn opens and pings a redis client from config.
func Conn(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:    cfg.Pass,
		DB:          cfg.DB,
		DialTimeout: cfg.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s:%s): %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}

// ListingCache implements scrape.ListingCache on redis.
type ListingCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

var _ scrape.ListingCache = (*ListingCache)(nil)

// NewListingCache wraps a redis client. ttl <= 0 falls back to 10 minutes.
func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ListingCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.New(log.Writer(), "[CACHE] ", log.LstdFlags),
	}
}

func key(retailer models.Retailer, query string) string {
	return fmt.Sprintf("shopsync:listings:%s:%s", retailer, scrape.CacheKeyQuery(query))
}

// Get returns cached listings for a query, or (nil, false) on a miss or
// any redis/decoding failure.
func (c *ListingCache) Get(ctx context.Context, retailer models.Retailer, query string) ([]models.RawListing, bool) {
	raw, err := c.rdb.Get(ctx, key(retailer, query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Printf("get %s: %v", key(retailer, query), err)
		}
		return nil, false
	}
	var listings []models.RawListing
	if err := json.Unmarshal(raw, &listings); err != nil {
		c.logger.Printf("decode %s: %v", key(retailer, query), err)
		return nil, false
	}
	return listings, true
}

// Put stores listings under the query key with the configured TTL.
func (c *ListingCache) Put(ctx context.Context, retailer models.Retailer, query string, listings []models.RawListing) {
	raw, err := json.Marshal(listings)
	if err != nil {
		c.logger.Printf("encode %s: %v", key(retailer, query), err)
		return
	}
	if err := c.rdb.Set(ctx, key(retailer, query), raw, c.ttl).Err(); err != nil {
		c.logger.Printf("set %s: %v", key(retailer, query), err)
	}
}
