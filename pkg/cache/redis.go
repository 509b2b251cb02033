package cache

import (
	"context"
	"encoding/json"
	"time"

	"assessment-system/internal/models"

	"github.com/go-redis/redis/v8"
)

const sessionTTL = 24 * time.Hour

// RedisCache holds active-session snapshots and the global best-score
// leaderboard. It is a read-through convenience layer: every value here
// can be rebuilt from the in-memory session store or the database.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetSession(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	key := "session:" + session.ID
	return c.client.Set(c.ctx, key, data, sessionTTL).Err()
}

func (c *RedisCache) GetSession(id string) (*models.Session, error) {
	data, err := c.client.Get(c.ctx, "session:"+id).Bytes()
	if err != nil {
		return nil, err
	}

	var session models.Session
	err = json.Unmarshal(data, &session)
	return &session, err
}

func (c *RedisCache) DeleteSession(id string) error {
	return c.client.Del(c.ctx, "session:"+id).Err()
}

// SetLeaderboard replaces the best-score leaderboard with the given
// per-user scores.
func (c *RedisCache) SetLeaderboard(bestScores map[string]int) error {
	const key = "leaderboard:best"

	if err := c.client.Del(c.ctx, key).Err(); err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	for userName, score := range bestScores {
		pipe.ZAdd(c.ctx, key, &redis.Z{
			Score:  float64(score),
			Member: userName,
		})
	}
	pipe.Expire(c.ctx, key, sessionTTL)

	_, err := pipe.Exec(c.ctx)
	return err
}

// UpdateLeaderboardEntry upserts one user's best score.
func (c *RedisCache) UpdateLeaderboardEntry(userName string, bestScore int) error {
	const key = "leaderboard:best"
	return c.client.ZAdd(c.ctx, key, &redis.Z{
		Score:  float64(bestScore),
		Member: userName,
	}).Err()
}

// GetLeaderboard returns leaderboard entries best-first.
func (c *RedisCache) GetLeaderboard() ([]models.LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(c.ctx, "leaderboard:best", 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = models.LeaderboardEntry{
			UserName:  z.Member.(string),
			BestScore: int(z.Score),
		}
	}

	return entries, nil
}
