package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ubadesk:profile:"

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RedisCache struct {
	db  *redis.Client
	ttl time.Duration
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, opts Options) (*RedisCache, error) {
	const op = "cache.NewRedisCache"
	db := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisCache{db: db, ttl: opts.TTL}, nil
}

func key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func (c *RedisCache) Get(ctx context.Context, id int64) (*models.User, bool, error) {
	const op = "cache.Get"
	val, err := c.db.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{}
	if err := json.Unmarshal(val, user); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return user, true, nil
}

func (c *RedisCache) Set(ctx context.Context, user *models.User) error {
	const op = "cache.Set"
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.db.Set(ctx, key(user.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, id int64) error {
	const op = "cache.Invalidate"
	if err := c.db.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.db.Close()
}
