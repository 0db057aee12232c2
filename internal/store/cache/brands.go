// Package cache puts Redis in front of the brand lookups every ranking starts with.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"creator-match-workers/internal/common/logger"
	"creator-match-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix    = "brand:profile:"
	preferenceKeyPrefix = "brand:preference:"
)

type BrandProfileSource interface {
	GetBrandProfile(ctx context.Context, brandID string) (*models.BrandProfile, error)
}

type BrandPreferenceSource interface {
	GetBrandPreference(ctx context.Context, brandID string) (*models.BrandPreference, error)
}

// BrandCache is a cache-aside decorator. Redis failures are logged and the
// call falls through to the backing store; misses are never cached.
type BrandCache struct {
	client      redis.Cmdable
	profiles    BrandProfileSource
	preferences BrandPreferenceSource
	ttl         time.Duration
	logger      logger.Logger
}

func NewBrandCache(client redis.Cmdable, profiles BrandProfileSource, preferences BrandPreferenceSource, ttl time.Duration, log logger.Logger) *BrandCache {
	return &BrandCache{
		client:      client,
		profiles:    profiles,
		preferences: preferences,
		ttl:         ttl,
		logger:      log,
	}
}

func (c *BrandCache) GetBrandProfile(ctx context.Context, brandID string) (*models.BrandProfile, error) {
	key := profileKeyPrefix + brandID

	var cached models.BrandProfile
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	profile, err := c.profiles.GetBrandProfile(ctx, brandID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, profile)
	return profile, nil
}

func (c *BrandCache) GetBrandPreference(ctx context.Context, brandID string) (*models.BrandPreference, error) {
	key := preferenceKeyPrefix + brandID

	var cached models.BrandPreference
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	pref, err := c.preferences.GetBrandPreference(ctx, brandID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, pref)
	return pref, nil
}

func (c *BrandCache) get(ctx context.Context, key string, dst interface{}) bool {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("brand cache read failed", map[string]interface{}{"key": key, "error": err})
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.logger.Warn("brand cache entry corrupt", map[string]interface{}{"key": key, "error": err})
		return false
	}
	return true
}

func (c *BrandCache) set(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("brand cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}
