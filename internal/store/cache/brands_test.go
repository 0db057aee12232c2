package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"creator-match-workers/internal/common/logger"
	"creator-match-workers/internal/models"
	"creator-match-workers/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	profileCalls    int
	preferenceCalls int
	err             error
}

func (s *countingSource) GetBrandProfile(_ context.Context, brandID string) (*models.BrandProfile, error) {
	s.profileCalls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.BrandProfile{ID: brandID, CompanyName: "Acme"}, nil
}

func (s *countingSource) GetBrandPreference(_ context.Context, brandID string) (*models.BrandPreference, error) {
	s.preferenceCalls++
	if s.err != nil {
		return nil, s.err
	}
	category := "fashion"
	return &models.BrandPreference{BrandID: brandID, Category: &category}, nil
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestBrandCache_HitAfterMiss(t *testing.T) {
	mr, client := setupRedis(t)
	src := &countingSource{}
	c := NewBrandCache(client, src, src, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := c.GetBrandProfile(ctx, "brand-1")
		require.NoError(t, err)
		assert.Equal(t, "Acme", p.CompanyName)

		pref, err := c.GetBrandPreference(ctx, "brand-1")
		require.NoError(t, err)
		assert.Equal(t, "fashion", *pref.Category)
	}

	assert.Equal(t, 1, src.profileCalls)
	assert.Equal(t, 1, src.preferenceCalls)
	assert.True(t, mr.Exists("brand:profile:brand-1"))
	assert.True(t, mr.Exists("brand:preference:brand-1"))
}

func TestBrandCache_ExpiresAfterTTL(t *testing.T) {
	mr, client := setupRedis(t)
	src := &countingSource{}
	c := NewBrandCache(client, src, src, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := c.GetBrandProfile(ctx, "brand-1")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = c.GetBrandProfile(ctx, "brand-1")
	require.NoError(t, err)

	assert.Equal(t, 2, src.profileCalls)
}

func TestBrandCache_NotFoundIsNotCached(t *testing.T) {
	mr, client := setupRedis(t)
	src := &countingSource{err: store.ErrNotFound}
	c := NewBrandCache(client, src, src, time.Minute, logger.NewTestLogger(t))

	_, err := c.GetBrandPreference(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, mr.Exists("brand:preference:ghost"))
}

func TestBrandCache_CorruptEntryFallsThrough(t *testing.T) {
	mr, client := setupRedis(t)
	require.NoError(t, mr.Set("brand:profile:brand-1", "{not json"))
	src := &countingSource{}
	c := NewBrandCache(client, src, src, time.Minute, logger.NewTestLogger(t))

	p, err := c.GetBrandProfile(context.Background(), "brand-1")
	require.NoError(t, err)
	assert.Equal(t, "brand-1", p.ID)
	assert.Equal(t, 1, src.profileCalls)
}

func TestBrandCache_RedisDownFallsThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	src := &countingSource{}
	c := NewBrandCache(client, src, src, time.Minute, logger.NewTestLogger(t))

	// The follow-up SET is unexpected and fails too; the read must still succeed.
	mock.ExpectGet("brand:profile:brand-1").SetErr(errors.New("connection refused"))

	p, err := c.GetBrandProfile(context.Background(), "brand-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.CompanyName)
	assert.Equal(t, 1, src.profileCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
