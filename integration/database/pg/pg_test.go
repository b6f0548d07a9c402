package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRequiresConnectionString(t *testing.T) {
	t.Parallel()

	db, err := Connect(context.Background(), Config{})
	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrEmptyConnectionString)
}

func TestWaitReady(t *testing.T) {
	t.Parallel()

	t.Run("retries until the server answers", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing()

		err = waitReady(context.Background(), db, Config{RetryAttempts: 3, RetryInterval: time.Millisecond})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		for range 2 {
			mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		}

		err = waitReady(context.Background(), db, Config{RetryAttempts: 2, RetryInterval: time.Millisecond})
		assert.ErrorIs(t, err, ErrFailedToOpenDBConnection)
		assert.Contains(t, err.Error(), "connection refused")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops waiting when the context ends", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err = waitReady(ctx, db, Config{RetryAttempts: 5, RetryInterval: time.Hour})
		assert.ErrorIs(t, err, ErrFailedToOpenDBConnection)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	check := Healthcheck(db)

	mock.ExpectPing()
	assert.NoError(t, check(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("gone"))
	assert.ErrorIs(t, check(context.Background()), ErrHealthcheckFailed)
}

func TestInTx(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = InTx(context.Background(), db, func(ctx context.Context) error {
			_, ok := TxFromContext(ctx)
			assert.True(t, ok)
			_, err := Conn(ctx, db).ExecContext(ctx, "UPDATE users SET email = $1", "a@b.c")
			return err
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = InTx(context.Background(), db, func(ctx context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and rethrows panics", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "boom", func() {
			_ = InTx(context.Background(), db, func(ctx context.Context) error { panic("boom") })
		})
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err = InTx(context.Background(), db, func(ctx context.Context) error {
			outer, _ := TxFromContext(ctx)
			return InTx(ctx, db, func(ctx context.Context) error {
				inner, _ := TxFromContext(ctx)
				assert.Same(t, outer, inner)
				return nil
			})
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConnWithoutTx(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Same(t, db, Conn(context.Background(), db))
	assert.Equal(t, context.Background(), WithTx(context.Background(), nil))
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	duplicate := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	foreignKey := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsDuplicateKeyError(duplicate))
	assert.False(t, IsDuplicateKeyError(foreignKey))
	assert.True(t, IsForeignKeyViolationError(foreignKey))
	assert.False(t, IsDuplicateKeyError(errors.New("23505")))
	assert.True(t, IsNotFoundError(fmt.Errorf("get: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(nil))
}

func TestMigrateRequiresFS(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.ErrorIs(t, Migrate(context.Background(), db, nil, Config{}, nil), ErrMigrationsNotProvided)
}
