package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SummaryCacheTTL bounds how long a summary survives without a rebuild.
	SummaryCacheTTL = 24 * time.Hour

	summaryKeyName = "summary"
)

// ErrCacheMiss is returned by SummaryCache.Get when no summary is cached.
var ErrCacheMiss = errors.New("cache miss")

// CategoryCount is one row of the count-per-category view.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CachedSummary is the denormalized read model stored in Redis. Categories
// keeps category storage order and omits categories without items.
type CachedSummary struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
	BuiltAt    time.Time       `json:"built_at"`
}

// SummaryCache stores the inventory summary as one JSON value.
type SummaryCache struct {
	client *RedisClient
	key    string
	ttl    time.Duration
}

// NewSummaryCache creates a SummaryCache backed by the given RedisClient.
// A nil client yields a nil cache.
func NewSummaryCache(r *RedisClient) *SummaryCache {
	if r == nil {
		return nil
	}
	return &SummaryCache{client: r, key: r.Key(summaryKeyName), ttl: SummaryCacheTTL}
}

// Get returns the cached summary, or ErrCacheMiss.
func (c *SummaryCache) Get(ctx context.Context) (*CachedSummary, error) {
	b, err := c.client.Client().Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return decodeSummary(b)
}

// Set replaces the cached summary.
func (c *SummaryCache) Set(ctx context.Context, s *CachedSummary) error {
	b, err := encodeSummary(s)
	if err != nil {
		return err
	}
	if err := c.client.Client().Set(ctx, c.key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Client().Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func encodeSummary(s *CachedSummary) ([]byte, error) {
	if s.Categories == nil {
		s.Categories = []CategoryCount{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("cache encode: %w", err)
	}
	return b, nil
}

func decodeSummary(b []byte) (*CachedSummary, error) {
	var s CachedSummary
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &s, nil
}
