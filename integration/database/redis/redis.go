package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect parses the URL, creates a client and pings it until it answers,
// retrying with a doubling interval. The whole attempt is bounded by
// ConnectTimeout when it is set.
func Connect(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := redis.NewClient(opts)
	if err := waitReady(ctx, client, cfg); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

func waitReady(ctx context.Context, client redis.UniversalClient, cfg Config) error {
	attempts := max(cfg.RetryAttempts, 1)
	interval := cfg.RetryInterval

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(interval):
		}
		interval *= 2
	}

	return errors.Join(ErrRedisNotReady, err)
}

// Healthcheck returns a readiness probe that pings Redis.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
