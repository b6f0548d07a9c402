package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBTX is the subset of database/sql used by repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Connect opens a pool through the pgx stdlib driver and waits until the
// server answers a ping, retrying with a doubling interval.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	db, err := sql.Open("pgx", cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)

	if err := waitReady(ctx, db, cfg); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func waitReady(ctx context.Context, db *sql.DB, cfg Config) error {
	attempts := max(cfg.RetryAttempts, 1)
	interval := cfg.RetryInterval

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(interval):
		}
		interval *= 2
	}

	return errors.Join(ErrFailedToOpenDBConnection, fmt.Errorf("after %d attempts: %w", attempts, err))
}

// Healthcheck returns a readiness probe that pings the database.
func Healthcheck(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
