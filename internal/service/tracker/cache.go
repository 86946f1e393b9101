package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"sentracker/internal/redis"
)

const (
	statsCacheKey = "tracker:statistics"
	statsCacheTTL = 30 * time.Second
)

// statsCache caches the statistics snapshot in redis. A nil client
// disables caching; every method is safe to call in that case.
type statsCache struct {
	client *redis.Client
}

func newStatsCache(client *redis.Client) *statsCache {
	return &statsCache{client: client}
}

func (c *statsCache) load(ctx context.Context) (*Statistics, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, statsCacheKey)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			log.Printf("stats cache get failed: %v", err)
		}
		return nil, false
	}
	var stats Statistics
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		log.Printf("stats cache decode failed: %v", err)
		return nil, false
	}
	return &stats, true
}

func (c *statsCache) store(ctx context.Context, stats *Statistics) {
	if c == nil || c.client == nil || stats == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		log.Printf("stats cache encode failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, statsCacheKey, raw, statsCacheTTL); err != nil {
		log.Printf("stats cache set failed: %v", err)
	}
}

func (c *statsCache) invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsCacheKey); err != nil {
		log.Printf("stats cache del failed: %v", err)
	}
}
