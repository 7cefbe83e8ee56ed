package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/core"
	mixerrors "github.com/tessro/mixtape/internal/errors"
)

const cachePrefix = "mixtape:"

// KV is the subset of a Redis client the cache uses.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ConnectRedis opens a Redis client and checks it answers.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", mixerrors.ErrCacheUnavailable, err)
	}
	return client, nil
}

// Cached serves lists from Redis and fills it from the wrapped Source on a
// miss. Cache failures never fail a request; they fall through to next.
type Cached struct {
	next Source
	kv   KV
	ttl  time.Duration
	log  *zap.Logger
}

// NewCached wraps next with a Redis cache holding entries for ttl.
func NewCached(next Source, kv KV, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{next: next, kv: kv, ttl: ttl, log: log.Named("cache")}
}

func (c *Cached) Feed(ctx context.Context, limit int) ([]core.Track, error) {
	return cachedList(ctx, c, "feed:"+strconv.Itoa(limit), func() ([]core.Track, error) {
		return c.next.Feed(ctx, limit)
	})
}

func (c *Cached) Uploaded(ctx context.Context, user string) ([]core.Track, error) {
	return cachedList(ctx, c, "uploaded:"+user, func() ([]core.Track, error) {
		return c.next.Uploaded(ctx, user)
	})
}

func (c *Cached) Liked(ctx context.Context, user string) ([]core.Track, error) {
	return cachedList(ctx, c, "liked:"+user, func() ([]core.Track, error) {
		return c.next.Liked(ctx, user)
	})
}

func (c *Cached) Mix(ctx context.Context, id string) (*core.Track, error) {
	var t core.Track
	if c.load(ctx, "mix:"+id, &t) {
		return &t, nil
	}
	got, err := c.next.Mix(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, "mix:"+id, got)
	return got, nil
}

func cachedList(ctx context.Context, c *Cached, key string, fetch func() ([]core.Track, error)) ([]core.Track, error) {
	var list []core.Track
	if c.load(ctx, key, &list) {
		return list, nil
	}
	list, err := fetch()
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, list)
	return list, nil
}

// load reports whether key was found and decoded into v.
func (c *Cached) load(ctx context.Context, key string, v interface{}) bool {
	data, err := c.kv.Get(ctx, cachePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.log.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	c.log.Debug("hit", zap.String("key", key))
	return true
}

func (c *Cached) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.kv.Set(ctx, cachePrefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
