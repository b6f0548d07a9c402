// Package ratelimiter provides token bucket rate limiting with pluggable
// storage.
//
// A bucket holds up to Capacity tokens and gains RefillRate tokens every
// RefillInterval. Each request takes tokens; a request that finds too few is
// denied and takes nothing, so Result.Remaining is negative only on denial.
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.PerWindow(5, time.Minute))
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, "login:"+ip)
//	if err != nil {
//		return err
//	}
//	if !res.Allowed() {
//		// wait res.RetryAfter()
//	}
//
// # Stores
//
// MemoryStore keeps buckets in process and removes stale ones in the
// background; run it with errgroup via Run. RedisStore keeps buckets in
// Redis through a Lua script so that several instances share one limit:
//
//	store := ratelimiter.NewRedisStore(rdb, ratelimiter.WithKeyPrefix("rl:"))
//
// Store failures are wrapped in ErrStoreUnavailable.
package ratelimiter
