package health

import (
	"context"
	"io"
	"log/slog"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/core/response"
	"github.com/dmitrymomot/receiptbook/pkg/async"
)

// Readiness verifies all service dependencies are functioning.
// Checks run concurrently. Returns "READY" if all pass and 503 Service
// Unavailable if any fail.
//
// Example:
//
//	r.Get("/health/ready", health.Readiness[*receiptbook.Context](
//		log,
//		pg.Healthcheck(db),
//		redis.Healthcheck(rdb),
//	))
func Readiness[C handler.Context](log *slog.Logger, checks ...func(context.Context) error) handler.HandlerFunc[C] {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(ctx C) handler.Response {
		futures := make([]*async.ExecFuture, 0, len(checks))
		for _, check := range checks {
			futures = append(futures, async.Exec(ctx, check, func(ctx context.Context, check func(context.Context) error) error {
				if err := check(ctx); err != nil {
					log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
					return err
				}
				return nil
			}))
		}

		if err := async.ExecAll(futures...); err != nil {
			return response.Error(response.ErrServiceUnavailable)
		}
		return response.String("READY")
	}
}
