package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayCache remembers submission responses by idempotency key so retries
// can be answered without touching the database. It is an optimisation only:
// the store's uniqueness constraint stays authoritative.
type ReplayCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

const replayKeyPrefix = "lovequiz:replay:"

type redisReplay struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReplay(client *redis.Client, ttl time.Duration) ReplayCache {
	return &redisReplay{client: client, ttl: ttl}
}

func (c *redisReplay) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, replayKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading replay cache: %w", err)
	}
	return b, true, nil
}

func (c *redisReplay) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, replayKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing replay cache: %w", err)
	}
	return nil
}

type noopReplay struct{}

// NoopReplay disables replay caching.
func NoopReplay() ReplayCache { return noopReplay{} }

func (noopReplay) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noopReplay) Set(context.Context, string, []byte) error         { return nil }
