package receiptbook

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/receiptbook/app/receiptbook/account"
	"github.com/dmitrymomot/receiptbook/app/receiptbook/document"
	"github.com/dmitrymomot/receiptbook/pkg/ratelimiter"
)

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithClock sets the time source for tokens and the login limiter.
func WithClock(now func() time.Time) AppOption {
	return func(app *App) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		app.now = now
		return nil
	}
}

// WithDB uses an existing connection pool. Migrations are left to the caller.
func WithDB(db *sql.DB) AppOption {
	return func(app *App) error {
		if db == nil {
			return errors.New("db cannot be nil")
		}
		app.db = db
		return nil
	}
}

// WithRedis stores login limiter state in client.
func WithRedis(client goredis.UniversalClient) AppOption {
	return func(app *App) error {
		if client == nil {
			return errors.New("redis client cannot be nil")
		}
		app.redis = client
		return nil
	}
}

func WithBlobStore(blobs document.BlobStore) AppOption {
	return func(app *App) error {
		if blobs == nil {
			return errors.New("blob store cannot be nil")
		}
		app.blobs = blobs
		return nil
	}
}

func WithAccountRepository(repo account.Repository) AppOption {
	return func(app *App) error {
		if repo == nil {
			return errors.New("account repository cannot be nil")
		}
		app.accountRepo = repo
		return nil
	}
}

func WithDocumentRepository(repo document.Repository) AppOption {
	return func(app *App) error {
		if repo == nil {
			return errors.New("document repository cannot be nil")
		}
		app.documentRepo = repo
		return nil
	}
}

func WithRateLimitStore(store ratelimiter.Store) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("rate limit store cannot be nil")
		}
		app.limitStore = store
		return nil
	}
}

// WithRegistry registers metrics in registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) AppOption {
	return func(app *App) error {
		if registry == nil {
			return errors.New("registry cannot be nil")
		}
		app.registry = registry
		return nil
	}
}
