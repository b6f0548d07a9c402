// Package health provides HTTP handlers for liveness and readiness probes.
//
//	r.Get("/health/live", health.Liveness[*AppContext])
//	r.Get("/health/ready", health.Readiness[*AppContext](log,
//		pg.Healthcheck(db),
//		redis.Healthcheck(rdb),
//	))
//
// Readiness checks have the signature func(context.Context) error and run
// concurrently; any failure turns the probe into a 503.
package health
