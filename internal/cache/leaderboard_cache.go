package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKey = "trivia:lb:xp"
	usernamesKey   = "trivia:lb:names"
)

// LeaderboardCache handles the global experience leaderboard (Redis ZSET)
type LeaderboardCache interface {
	AddExperience(ctx context.Context, playerID, username string, xp int) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, playerID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) AddExperience(ctx context.Context, playerID, username string, xp int) error {
	pipe := c.client.TxPipeline()
	pipe.ZIncrBy(ctx, leaderboardKey, float64(xp), playerID)
	if username != "" {
		pipe.HSet(ctx, usernamesKey, playerID, username)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return []LeaderboardEntry{}, nil
	}
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]string, len(results))
	for i, z := range results {
		ids[i], _ = z.Member.(string)
	}
	names, err := c.client.HMGet(ctx, usernamesKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			PlayerID: ids[i],
			XP:       int(z.Score),
			Rank:     i + 1,
		}
		if name, ok := names[i].(string); ok {
			entries[i].Username = name
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
