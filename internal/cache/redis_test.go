package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"laundry-service/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps string values in memory. Only the commands RatingCache
// issues are implemented.
type fakeRedis struct {
	redis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRatingCacheMissIsNotAnError(t *testing.T) {
	c := NewRatingCache(newFakeRedis(), time.Minute)

	got, err := c.Get(context.Background())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRatingCacheSetGetInvalidate(t *testing.T) {
	rdb := newFakeRedis()
	c := NewRatingCache(rdb, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, models.RatingSummary{Average: 4.5, Count: 2}))
	assert.Equal(t, 10*time.Minute, rdb.ttls[ratingSummaryKey])

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RatingSummary{Average: 4.5, Count: 2}, *got)

	require.NoError(t, c.Invalidate(ctx))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRatingCacheReadErrors(t *testing.T) {
	ctx := context.Background()

	down := newFakeRedis()
	down.getErr = errors.New("connection refused")
	_, err := NewRatingCache(down, time.Minute).Get(ctx)
	assert.ErrorIs(t, err, down.getErr)

	corrupt := newFakeRedis()
	corrupt.values[ratingSummaryKey] = "not json"
	got, err := NewRatingCache(corrupt, time.Minute).Get(ctx)
	assert.Error(t, err)
	assert.Nil(t, got)
}
