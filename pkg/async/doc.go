// Package async runs work on background goroutines and hands back futures.
//
// It is used to move CPU-bound work, such as password key derivation, off the
// request goroutine so the handler can still observe request cancellation,
// and to fan out independent checks such as readiness probes.
//
// # Usage
//
//	future := async.Async(ctx, pw, func(ctx context.Context, pw string) (string, error) {
//		return password.Hash(pw)
//	})
//
//	record, err := future.AwaitContext(ctx)
//
// Functions that only return an error use Exec and ExecAll:
//
//	futures := []*async.ExecFuture{
//		async.Exec(ctx, db, pingDB),
//		async.Exec(ctx, rdb, pingRedis),
//	}
//	if err := async.ExecAll(futures...); err != nil {
//		return err
//	}
//
// If the context is already cancelled when the goroutine starts, the
// function is not called and the context error is returned.
package async
