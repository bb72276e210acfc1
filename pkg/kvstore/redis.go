package kvstore

import (
	"context"

	"github.com/canopy-network/stakex/pkg/redis"
)

// Redis is a Store shared between processes through Redis.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an connected client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	return s.client.Get(ctx, key)
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value)
}

func (s *Redis) Close() error {
	return s.client.Close()
}
