package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter decides whether a keyed request may proceed.
type RateLimiter interface {
	// Allow consumes one token for key.
	Allow(ctx context.Context, key string) (*Result, error)
	// AllowN consumes n tokens for key.
	AllowN(ctx context.Context, key string, n int) (*Result, error)
	// Status reports the bucket state without consuming tokens.
	Status(ctx context.Context, key string) (*Result, error)
	// Reset refills the bucket for key.
	Reset(ctx context.Context, key string) error
}

// Store persists bucket state. ConsumeTokens refills the bucket, then takes
// tokens only if enough are available. A negative remaining value means the
// request was denied and nothing was taken.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Config describes a token bucket.
type Config struct {
	Capacity       int           // maximum tokens, also the burst size
	RefillRate     int           // tokens added per interval
	RefillInterval time.Duration // refill period
}

// Validate checks that all fields are positive.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidConfig)
	case c.RefillRate <= 0:
		return fmt.Errorf("%w: refill rate must be positive", ErrInvalidConfig)
	case c.RefillInterval <= 0:
		return fmt.Errorf("%w: refill interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// PerWindow builds a Config that allows limit requests per window and
// refills the whole bucket at once.
func PerWindow(limit int, window time.Duration) Config {
	return Config{Capacity: limit, RefillRate: limit, RefillInterval: window}
}

// Result is the outcome of a limiter call.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time

	retryAfter time.Duration
}

// Allowed reports whether the request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long a denied caller should wait. Zero when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return r.retryAfter
}

// Bucket implements RateLimiter on top of a Store.
type Bucket struct {
	store  Store
	config Config
	now    func() time.Time
}

// BucketOption configures a Bucket.
type BucketOption func(*Bucket)

// WithClock overrides the clock used to compute RetryAfter.
func WithClock(now func() time.Time) BucketOption {
	return func(b *Bucket) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBucket creates a token bucket limiter.
func NewBucket(store Store, config Config, opts ...BucketOption) (*Bucket, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	b := &Bucket{store: store, config: config, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Allow consumes one token.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN consumes n tokens. n must be between 1 and the bucket capacity.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 || n > b.config.Capacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTokenCount, n)
	}
	return b.consume(ctx, key, n)
}

// Status reports the current state without consuming tokens.
func (b *Bucket) Status(ctx context.Context, key string) (*Result, error) {
	return b.consume(ctx, key, 0)
}

// Reset refills the bucket for key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrContextCancelled, err)
	}
	if err := b.store.Reset(ctx, key); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (b *Bucket) consume(ctx context.Context, key string, n int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextCancelled, err)
	}

	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	res := &Result{Limit: b.config.Capacity, Remaining: remaining, ResetAt: resetAt}
	if remaining < 0 {
		// Each interval after resetAt adds RefillRate more tokens.
		deficit := -remaining
		extra := (deficit+b.config.RefillRate-1)/b.config.RefillRate - 1
		wait := resetAt.Add(time.Duration(extra) * b.config.RefillInterval).Sub(b.now())
		res.retryAfter = max(wait, 0)
	}
	return res, nil
}
