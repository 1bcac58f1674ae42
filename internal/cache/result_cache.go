package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"triviabattle/internal/model"
)

// ResultCache keeps finished match results for quick lookup
type ResultCache interface {
	Set(ctx context.Context, result *model.MatchResult) error
	Get(ctx context.Context, matchID string) (*model.MatchResult, error)
	Delete(ctx context.Context, matchID string) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *resultCache) key(matchID string) string {
	return fmt.Sprintf("match:%s:result", matchID)
}

func (c *resultCache) Set(ctx context.Context, result *model.MatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(result.Game.MatchID), data, c.ttl).Err()
}

// Get returns nil, nil on a miss
func (c *resultCache) Get(ctx context.Context, matchID string) (*model.MatchResult, error) {
	data, err := c.client.Get(ctx, c.key(matchID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.MatchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) Delete(ctx context.Context, matchID string) error {
	return c.client.Del(ctx, c.key(matchID)).Err()
}
