package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript mirrors MemoryStore.ConsumeTokens atomically.
// ARGV: capacity, refill rate, refill interval (ms), now (ms), tokens, ttl (ms).
var tokenBucketScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local n = tonumber(ARGV[5])
local ttl = tonumber(ARGV[6])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'refill')
local tokens = capacity
local refill = now
if state[1] and state[2] then
  tokens = tonumber(state[1])
  refill = tonumber(state[2])
end

local elapsed = now - refill
if elapsed >= interval then
  local intervals = math.floor(elapsed / interval)
  tokens = math.min(capacity, tokens + intervals * rate)
  refill = refill + intervals * interval
end

local remaining = tokens - n
if remaining >= 0 then
  tokens = remaining
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'refill', refill)
redis.call('PEXPIRE', KEYS[1], ttl)
return {remaining, refill + interval}
`)

// RedisStore keeps buckets in Redis so limits are shared across instances.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the prefix of bucket keys (default "ratelimit:").
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) { rs.prefix = prefix }
}

// WithRedisStoreClock overrides the clock whose time is sent to Redis.
func WithRedisStoreClock(now func() time.Time) RedisStoreOption {
	return func(rs *RedisStore) {
		if now != nil {
			rs.now = now
		}
	}
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{client: client, prefix: "ratelimit:", now: time.Now}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// ConsumeTokens runs the token bucket script for key.
func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	intervalMs := config.RefillInterval.Milliseconds()
	if intervalMs <= 0 {
		return 0, time.Time{}, fmt.Errorf("%w: refill interval below 1ms", ErrInvalidConfig)
	}

	// Keep idle buckets until they would be full again, plus one interval.
	fillIntervals := int64((config.Capacity+config.RefillRate-1)/config.RefillRate + 1)
	ttl := fillIntervals * intervalMs

	res, err := tokenBucketScript.Run(ctx, rs.client, []string{rs.prefix + key},
		config.Capacity,
		config.RefillRate,
		intervalMs,
		rs.now().UnixMilli(),
		tokens,
		ttl,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected script result length %d", len(res))
	}

	return int(res[0]), time.UnixMilli(res[1]), nil
}

// Reset deletes the bucket for key.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	return rs.client.Del(ctx, rs.prefix+key).Err()
}
