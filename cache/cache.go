package cache

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pattarawin/webboard/config"
)

const opTimeout = 2 * time.Second

// Cache wraps the shared Redis client. It is constructed once in main and
// passed by reference into every component that touches cached state.
//
// Every operation degrades when the backend is unreachable: reads report a
// miss, writes and deletes become no-ops. Durable-store correctness never
// depends on the cache answering.
type Cache struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

// New builds a Cache around an existing Redis client. A nil client yields a
// cache that misses on every read, which is useful in tests and when Redis is
// disabled entirely.
func New(rdb *redis.Client, log *zap.SugaredLogger) *Cache {
	return &Cache{rdb: rdb, log: log}
}

// NewClient dials Redis from configuration. The connection is verified with a
// best-effort ping; a failed ping is logged, not fatal.
func NewClient(cfg config.AppConfig, log *zap.SugaredLogger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil && log != nil {
		log.Warnf("redis ping failed, cache will degrade to misses: %v", err)
	}
	return rdb
}

// GetInt returns a cached integer. The second result is false on miss or on
// any backend trouble.
func (c *Cache) GetInt(key string) (int64, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	v, err := c.rdb.Get(ctx, key).Int64()
	if err != nil {
		c.debugf("cache get miss key=%s err=%v", key, err)
		return 0, false
	}
	return v, true
}

// SetInt stores an integer with the given TTL.
func (c *Cache) SetInt(key string, v int64, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.rdb.Set(ctx, key, v, ttl).Err(); err != nil {
		c.warnf("cache set failed key=%s err=%v", key, err)
	}
}

// GetJSON unmarshals a cached JSON value into out; false on miss or error.
func (c *Cache) GetJSON(key string, out interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		c.debugf("cache get miss key=%s err=%v", key, err)
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		c.warnf("cache value corrupt key=%s err=%v", key, err)
		return false
	}
	return true
}

// SetJSON marshals v and stores the JSON bytes with the given TTL.
func (c *Cache) SetJSON(key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.warnf("cache marshal failed key=%s err=%v", key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		c.warnf("cache set failed key=%s err=%v", key, err)
	}
}

// SetFlag stores a "1" marker with the given TTL (presence, revocations).
func (c *Cache) SetFlag(key string, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.rdb.Set(ctx, key, "1", ttl).Err(); err != nil {
		c.warnf("cache set failed key=%s err=%v", key, err)
	}
}

// Exists reports whether a key is present; false on any backend trouble.
func (c *Cache) Exists(key string) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		c.debugf("cache exists failed key=%s err=%v", key, err)
		return false
	}
	return n > 0
}

// Delete evicts keys. Invalidation is best-effort: a failed delete is logged
// and the 60s/300s TTLs bound the resulting staleness.
func (c *Cache) Delete(keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.warnf("cache delete failed keys=%v err=%v", keys, err)
	}
}

func (c *Cache) debugf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}

func (c *Cache) warnf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Warnf(format, args...)
	}
}
