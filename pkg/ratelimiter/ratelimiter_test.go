package ratelimiter_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/receiptbook/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ratelimiter.Config
		ok   bool
	}{
		{"valid", ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second}, true},
		{"zero capacity", ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}, false},
		{"zero rate", ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}, false},
		{"zero interval", ratelimiter.Config{Capacity: 1, RefillRate: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
			}
		})
	}
}

func TestNewBucket(t *testing.T) {
	t.Parallel()

	_, err := ratelimiter.NewBucket(nil, ratelimiter.PerWindow(5, time.Minute))
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	_, err = ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}

func TestBucketWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.PerWindow(3, time.Minute), ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	ctx := context.Background()
	for want := 2; want >= 0; want-- {
		res, err := limiter.Allow(ctx, "login:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, want, res.Remaining)
		assert.Equal(t, 3, res.Limit)
		assert.Zero(t, res.RetryAfter())
	}

	clock.Advance(20 * time.Second)
	res, err := limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, 40*time.Second, res.RetryAfter())

	// Denied calls take nothing, so the status is unchanged.
	status, err := limiter.Status(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)

	other, err := limiter.Allow(ctx, "login:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed(), "keys are independent")

	clock.Advance(40 * time.Second)
	res, err = limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 2, res.Remaining)
}

func TestBucketAllowNAndRetryAfter(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       10,
		RefillRate:     2,
		RefillInterval: time.Second,
	}, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	ctx := context.Background()

	_, err = limiter.AllowN(ctx, "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	_, err = limiter.AllowN(ctx, "k", 11)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)

	res, err := limiter.AllowN(ctx, "k", 9)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)

	res, err = limiter.AllowN(ctx, "k", 6)
	require.NoError(t, err)
	require.False(t, res.Allowed())
	assert.Equal(t, -5, res.Remaining)
	// 5 missing tokens at 2 per second: 3 intervals.
	assert.Equal(t, 3*time.Second, res.RetryAfter())

	clock.Advance(3 * time.Second)
	res, err = limiter.AllowN(ctx, "k", 6)
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 1, res.Remaining)
}

func TestBucketReset(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.PerWindow(1, time.Hour))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)

	res, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	require.NoError(t, limiter.Reset(ctx, "k"))
	res, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

type failingStore struct{}

func (failingStore) ConsumeTokens(context.Context, string, int, ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("connection refused")
}

func (failingStore) Reset(context.Context, string) error {
	return errors.New("connection refused")
}

func TestBucketErrors(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.NewBucket(failingStore{}, ratelimiter.PerWindow(1, time.Second))
	require.NoError(t, err)

	_, err = limiter.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
	assert.ErrorIs(t, limiter.Reset(context.Background(), "k"), ratelimiter.ErrStoreUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = limiter.Allow(ctx, "k")
	assert.ErrorIs(t, err, ratelimiter.ErrContextCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBucketConcurrent(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.PerWindow(50, time.Hour))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
