package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoomCache maps friends room codes to match ids
type RoomCache interface {
	Reserve(ctx context.Context, code, matchID string) (bool, error)
	Lookup(ctx context.Context, code string) (string, error)
	Release(ctx context.Context, code string) error
}

type roomCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoomCache creates a new room cache
func NewRoomCache(client *redis.Client) RoomCache {
	return &roomCache{
		client: client,
		ttl:    2 * time.Hour,
	}
}

func (c *roomCache) key(code string) string {
	return fmt.Sprintf("room:%s", code)
}

// Reserve claims code for matchID. It reports false if the code is taken.
func (c *roomCache) Reserve(ctx context.Context, code, matchID string) (bool, error) {
	return c.client.SetNX(ctx, c.key(code), matchID, c.ttl).Result()
}

// Lookup returns "" when the code is unknown or expired
func (c *roomCache) Lookup(ctx context.Context, code string) (string, error) {
	matchID, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return matchID, err
}

func (c *roomCache) Release(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
