// Package cache persists completed search results keyed by a hash of the
// normalized query. Entries carry a fixed one-hour absolute expiry; a
// stale entry reads as a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kurosh87/optimalflight/internal/models"
)

// TTL is the fixed lifetime of a cache entry.
const TTL = time.Hour

type Cache interface {
	Get(ctx context.Context, key string) (*models.CacheEntry, bool)
	Set(ctx context.Context, entry models.CacheEntry) error
	Close() error
}

// Key derives the deterministic cache key for a normalized query.
func Key(origin, destination, date string, flexibility models.Flexibility) string {
	payload := struct {
		Origin      string             `json:"origin"`
		Destination string             `json:"destination"`
		Date        string             `json:"date"`
		Flexibility models.Flexibility `json:"flexibility"`
	}{origin, destination, date, flexibility}

	data, _ := json.Marshal(payload)
	hash := sha256.Sum256(data)
	return "search:" + hex.EncodeToString(hash[:])
}

type RedisCache struct {
	client *redis.Client
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.CacheEntry, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	// Redis expires the key itself, but the absolute timestamp is
	// authoritative in case the entry was written with a longer TTL.
	if entry.Expired(time.Now()) {
		return nil, false
	}
	return &entry, true
}

func (c *RedisCache) Set(ctx context.Context, entry models.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, entry.QueryHash, data, TTL).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key string) (*models.CacheEntry, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, entry models.CacheEntry) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
