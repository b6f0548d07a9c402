// Package redis creates go-redis clients from a URL and checks their health.
//
// Connect accepts redis:// and rediss:// URLs and returns only after the
// server answers a ping:
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL: "redis://localhost:6379/0",
//		RetryAttempts: 3,
//		RetryInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck returns a probe suitable for health.Readiness.
//
// Errors are checked with errors.Is against ErrEmptyConnectionURL,
// ErrFailedToParseRedisConnString, ErrRedisNotReady and ErrHealthcheckFailed.
package redis
