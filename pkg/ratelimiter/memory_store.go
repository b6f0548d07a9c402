package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// bucket is the state of one key.
type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time // used by cleanup to find stale buckets
}

// MemoryStore implements Store interface using in-memory storage.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]*bucket

	// Configuration
	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	staleAfter      time.Duration
	now             func() time.Time

	// State management
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	// Observability metrics
	bucketsCreated atomic.Int64
	bucketsRemoved atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and debugging
type MemoryStoreStats struct {
	BucketsCreated int64 // Total number of buckets created
	BucketsRemoved int64 // Total number of stale buckets removed
	ActiveBuckets  int   // Current number of active buckets
	IsRunning      bool  // Whether the cleanup goroutine is running
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the cleanup interval for removing stale buckets.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithMemoryStoreShutdownTimeout sets the graceful shutdown timeout.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// WithMemoryStoreClock overrides the store clock. Used by tests.
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// WithStaleAfter sets how long an untouched bucket survives cleanup.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.staleAfter = d
		}
	}
}

// NewMemoryStore creates a new in-memory store.
// Call Start() to begin background cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:         make(map[string]*bucket),
		cleanupInterval: 5 * time.Minute,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		staleAfter:      time.Hour,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// ConsumeTokens refills the bucket for the elapsed intervals and takes
// tokens when enough are available. Denied calls leave the bucket untouched.
func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, exists := ms.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     config.Capacity,
			lastRefill: now,
		}
		ms.buckets[key] = b
		ms.bucketsCreated.Add(1)
	}

	if elapsed := now.Sub(b.lastRefill); elapsed >= config.RefillInterval {
		intervals := int64(elapsed / config.RefillInterval)
		// Enough intervals to fill the bucket; more would only risk overflow.
		fill := int64(config.Capacity/config.RefillRate + 1)
		b.tokens = min(b.tokens+int(min(intervals, fill))*config.RefillRate, config.Capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * config.RefillInterval)
	}

	remaining = b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}
	b.lastAccess = now

	return remaining, b.lastRefill.Add(config.RefillInterval), nil
}

// Reset removes the bucket for key so the next call starts full.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.buckets, key)
	return nil
}

// Start begins the background cleanup goroutine. This is a blocking operation
// that runs until the context is cancelled. Use Run() for errgroup pattern or call this in a goroutine.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return ErrAlreadyStarted
	}

	// Skip starting if cleanup is disabled
	if ms.cleanupInterval <= 0 {
		ms.mu.Unlock()
		return fmt.Errorf("%w: cleanup interval must be > 0, got %v", ErrInvalidConfig, ms.cleanupInterval)
	}

	ms.ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	ms.running.Store(true)
	defer ms.running.Store(false)

	ms.logger.InfoContext(ms.ctx, "memory store cleanup started",
		slog.Duration("cleanup_interval", ms.cleanupInterval))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.ctx.Done():
			ms.logger.InfoContext(context.Background(), "memory store cleanup stopping")
			return ms.ctx.Err()
		case <-ticker.C:
			ms.cleanupWithWait()
		}
	}
}

// Stop gracefully shuts down the background cleanup with a timeout.
// Returns an error if the shutdown timeout is exceeded.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return ErrNotStarted
	}

	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()

	// Cancel context to stop main loop
	cancel()

	// Wait for any in-progress cleanup to complete with timeout
	ms.logger.InfoContext(context.Background(), "memory store stopping, waiting for cleanup to complete",
		slog.Duration("timeout", ms.shutdownTimeout))

	ctx, ctxCancel := context.WithTimeout(context.Background(), ms.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ms.logger.InfoContext(context.Background(), "memory store stopped cleanly")
		return nil
	case <-ctx.Done():
		ms.logger.WarnContext(context.Background(), "memory store shutdown timeout exceeded",
			slog.Duration("timeout", ms.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, ms.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the cleanup, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- ms.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			// Context cancelled - perform graceful shutdown
			_ = ms.Stop() // Ignore stop error in normal shutdown
			<-errCh       // Wait for Start() to exit
			return nil
		case err := <-errCh:
			// Start() returned - check if it's a normal shutdown
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// cleanupWithWait is a wrapper around removeStale that tracks the operation with WaitGroup
func (ms *MemoryStore) cleanupWithWait() {
	ms.mu.RLock()
	if ms.cancel == nil {
		ms.mu.RUnlock()
		return
	}
	ms.wg.Add(1)
	ms.mu.RUnlock()

	defer ms.wg.Done()
	ms.removeStale()
}

// removeStale drops buckets not accessed within staleAfter.
func (ms *MemoryStore) removeStale() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	removed := 0
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > ms.staleAfter {
			delete(ms.buckets, key)
			removed++
		}
	}

	if removed > 0 {
		ms.bucketsRemoved.Add(int64(removed))
		ms.logger.Debug("removed stale rate limit buckets", slog.Int("count", removed))
	}
}

// Stats returns current memory store statistics for observability and monitoring.
// This method is thread-safe and can be called at any time.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.RLock()
	isRunning := ms.cancel != nil
	activeBuckets := len(ms.buckets)
	ms.mu.RUnlock()

	return MemoryStoreStats{
		BucketsCreated: ms.bucketsCreated.Load(),
		BucketsRemoved: ms.bucketsRemoved.Load(),
		ActiveBuckets:  activeBuckets,
		IsRunning:      isRunning,
	}
}

// Healthcheck validates that the memory store is operational.
// Returns nil if healthy, or an error describing the health issue.
// This method is thread-safe and suitable for use in health check endpoints.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	stats := ms.Stats()

	// If cleanup is configured but not running, it's unhealthy
	if ms.cleanupInterval > 0 && !stats.IsRunning {
		return fmt.Errorf("%w: cleanup is configured but not running", ErrStoreUnavailable)
	}

	return nil
}
