package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soundstage/soundstage-api/internal/api/metrics"
	"github.com/soundstage/soundstage-api/internal/core/domain"
)

const leaderboardKey = "leaderboard:top"

// LeaderboardCache stores the top-songs list as one JSON value.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

func (c *LeaderboardCache) Get(ctx context.Context) ([]*domain.Song, bool, error) {
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.LeaderboardCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.LeaderboardCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("leaderboard get: %w", err)
	}

	songs, err := decodeSongs(raw)
	if err != nil {
		metrics.LeaderboardCacheTotal.WithLabelValues("error").Inc()
		return nil, false, err
	}
	metrics.LeaderboardCacheTotal.WithLabelValues("hit").Inc()
	return songs, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, songs []*domain.Song) error {
	raw, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("leaderboard encode: %w", err)
	}
	return c.client.Set(ctx, leaderboardKey, raw, c.ttl).Err()
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey).Err()
}

func decodeSongs(raw []byte) ([]*domain.Song, error) {
	var songs []*domain.Song
	if err := json.Unmarshal(raw, &songs); err != nil {
		return nil, fmt.Errorf("leaderboard decode: %w", err)
	}
	return songs, nil
}
