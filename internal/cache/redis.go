package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reading:lesson:text:"

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects and pings addr. A zero ttl keeps entries until
// invalidated.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func key(lessonID int64) string { return keyPrefix + strconv.FormatInt(lessonID, 10) }

func (c *Redis) Get(ctx context.Context, lessonID int64) (string, bool, error) {
	s, err := c.rdb.Get(ctx, key(lessonID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (c *Redis) Set(ctx context.Context, lessonID int64, text string) error {
	return c.rdb.Set(ctx, key(lessonID), text, c.ttl).Err()
}

func (c *Redis) Invalidate(ctx context.Context, lessonID int64) error {
	return c.rdb.Del(ctx, key(lessonID)).Err()
}

func (c *Redis) Close() error { return c.rdb.Close() }
