// Package logger builds slog loggers and provides attribute helpers with
// consistent keys.
//
//	log := logger.NewFromConfig(cfg.Log)
//	log.InfoContext(ctx, "user signed in",
//		logger.UserID(id),
//		logger.Role("admin"),
//	)
//
// Helpers return an empty slog.Attr for empty input, which slog drops, so
// call sites do not need nil or empty checks. Query redacts named parameters
// so bearer tokens passed as ?token= never reach the log.
//
// WithContextExtractors adds attributes such as request IDs from the context
// of every *Context call.
package logger
