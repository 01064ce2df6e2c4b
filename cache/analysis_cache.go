package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/manngobeh2006/oneclick-master/model"

	"github.com/redis/go-redis/v9"
)

const analysisKeyPrefix = "mastering:analysis:"

// AnalysisCache stores parsed analyzer output keyed by content hash, so a
// file dropped into the inbox twice skips parsing and duplicate corpus
// writes. A nil AnalysisCache misses on every lookup.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalysisCache creates an analysis cache with the given entry lifetime.
func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl}
}

// Get returns the cached reference track for a content hash, or (nil, nil)
// when the hash is unknown.
func (c *AnalysisCache) Get(ctx context.Context, fileHash string) (*model.ReferenceTrack, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	val, err := c.client.Get(ctx, analysisKeyPrefix+fileHash).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached analysis: %w", err)
	}

	var track model.ReferenceTrack
	if err := json.Unmarshal([]byte(val), &track); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	return &track, nil
}

// Set caches a parsed reference track under its content hash.
func (c *AnalysisCache) Set(ctx context.Context, track *model.ReferenceTrack) error {
	if c == nil || c.client == nil || track.FileHash == "" {
		return nil
	}

	data, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := c.client.Set(ctx, analysisKeyPrefix+track.FileHash, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache analysis: %w", err)
	}
	return nil
}
