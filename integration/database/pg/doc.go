// Package pg connects to PostgreSQL through the pgx stdlib driver and
// applies goose migrations.
//
// Connect opens a *sql.DB, applies the pool limits from Config and pings
// the server with retries before returning:
//
//	db, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	if err := pg.Migrate(ctx, db, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//
// Repositories accept a DBTX and resolve it with Conn, so the same code
// runs inside or outside a transaction started by InTx:
//
//	err := pg.InTx(ctx, db, func(ctx context.Context) error {
//		if err := users.UpdatePasswordHash(ctx, id, hash); err != nil {
//			return err
//		}
//		return audit.Record(ctx, id, "password_changed")
//	})
//
// Healthcheck returns a probe for the readiness endpoint. IsNotFoundError,
// IsDuplicateKeyError, IsForeignKeyViolationError and IsTxClosedError
// classify driver errors without leaking pgx types to callers.
package pg
