package pg

import (
	"context"
	"database/sql"
)

// txContextKey is an unexported key type to avoid context key collisions.
type txContextKey struct{}

// WithTx returns a new context carrying the provided transaction.
// If ctx is nil, context.Background() is used. If tx is nil, the original
// context is returned unchanged.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext extracts a transaction previously stored with WithTx.
// The second return value indicates whether a transaction was present.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey{}).(*sql.Tx)
	return tx, ok
}

// Conn returns the transaction carried by ctx, or db when there is none.
// Repositories call it so they join a surrounding InTx without knowing.
func Conn(ctx context.Context, db DBTX) DBTX {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

// InTx runs fn inside a transaction stored in its context. The transaction
// commits when fn returns nil and rolls back otherwise. Panics roll back
// and are rethrown. Nested calls reuse the outer transaction.
func InTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(WithTx(ctx, tx))
}
