package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL    = 15 * time.Minute
	DefaultJitter = 5 * time.Minute
	DefaultPrefix = "storefront:cart:"

	// entryVersion is bumped whenever the cached cart layout changes.
	// Entries written under another version read as misses.
	entryVersion = 2
)

type RedisOptions struct {
	Prefix string
	TTL    time.Duration
	// Jitter is the upper bound of a random extra TTL, so carts cached in
	// the same burst do not all expire together. Zero disables it.
	Jitter time.Duration
}

func (o RedisOptions) withDefaults() RedisOptions {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Jitter < 0 {
		o.Jitter = 0
	}
	return o
}

// Dial opens a client for addr and checks it answers.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

type RedisCache struct {
	client redis.Cmdable
	opts   RedisOptions
}

func NewRedisCache(client redis.Cmdable, opts RedisOptions) *RedisCache {
	return &RedisCache{client: client, opts: opts.withDefaults()}
}

type entry struct {
	Version int          `json:"v"`
	Cart    *domain.Cart `json:"cart"`
}

func (r *RedisCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	key := r.key(userID)
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cached cart %s: %w", key, err)
	}
	if e.Version != entryVersion || e.Cart == nil {
		// Stale layout; drop it so the next read refills from the store.
		_ = r.client.Del(ctx, key).Err()
		return nil, ErrCacheMiss
	}
	return e.Cart, nil
}

func (r *RedisCache) Set(ctx context.Context, userID string, c *domain.Cart) error {
	data, err := json.Marshal(entry{Version: entryVersion, Cart: c})
	if err != nil {
		return fmt.Errorf("encode cart for %s: %w", userID, err)
	}
	key := r.key(userID)
	if err := r.client.Set(ctx, key, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, userID string) error {
	key := r.key(userID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) ttl() time.Duration {
	if r.opts.Jitter == 0 {
		return r.opts.TTL
	}
	return r.opts.TTL + rand.N(r.opts.Jitter)
}

func (r *RedisCache) key(userID string) string {
	return r.opts.Prefix + userID
}
