package receiptbook

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/receiptbook/app/receiptbook/account"
	"github.com/dmitrymomot/receiptbook/app/receiptbook/document"
	"github.com/dmitrymomot/receiptbook/app/receiptbook/migrations"
	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/core/router"
	"github.com/dmitrymomot/receiptbook/core/server"
	"github.com/dmitrymomot/receiptbook/integration/database/pg"
	"github.com/dmitrymomot/receiptbook/integration/database/redis"
	"github.com/dmitrymomot/receiptbook/integration/storage/s3"
	"github.com/dmitrymomot/receiptbook/middleware"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
	"github.com/dmitrymomot/receiptbook/pkg/ratelimiter"
)

const metricsNamespace = "receiptbook"

// App wires configuration, infrastructure and handlers into one
// http.Handler and runs it with its background workers.
type App struct {
	config Config
	logger *slog.Logger
	now    func() time.Time

	db           *sql.DB
	redis        goredis.UniversalClient
	blobs        document.BlobStore
	accountRepo  account.Repository
	documentRepo document.Repository
	limitStore   ratelimiter.Store
	registry     *prometheus.Registry

	tokens    *jwt.Service
	accounts  *account.Service
	documents *document.Service
	limiter   ratelimiter.RateLimiter
	metrics   *middleware.Metrics

	checks  []func(context.Context) error
	workers []func(context.Context) func() error
	closers []func() error
	router  router.Router[*Context]
}

// AppOption configures App. Options supplying infrastructure stop New
// from connecting its own.
type AppOption func(*App) error

// New builds the application. Dependencies not supplied through options
// are created from cfg: Postgres (with migrations), S3, and either Redis
// or an in-memory store for the login limiter.
func New(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{config: cfg, now: time.Now}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = logger.NewFromConfig(cfg.Log, logger.WithContextExtractors(middleware.RequestIDExtractor))
	}
	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if err := app.init(ctx); err != nil {
		return nil, errors.Join(err, app.Close())
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	tokens, err := jwt.NewFromString(a.config.JWTSecret, jwt.WithClock(a.now))
	if err != nil {
		return err
	}
	a.tokens = tokens

	if err := a.initStorage(ctx); err != nil {
		return err
	}
	if err := a.initLimiter(ctx); err != nil {
		return err
	}

	a.metrics = middleware.NewMetrics(a.registry, metricsNamespace)

	a.accounts, err = account.NewService(a.accountRepo, a.tokens, account.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.documents = document.NewService(a.documentRepo, a.blobs, a.logger)

	if a.config.AdminEmail != "" {
		if err := a.accounts.EnsureAdmin(ctx, a.config.AdminEmail, a.config.AdminPassword); err != nil {
			return err
		}
	}

	a.router = a.routes()
	return nil
}

func (a *App) initStorage(ctx context.Context) error {
	if a.accountRepo == nil || a.documentRepo == nil {
		if a.db == nil {
			db, err := pg.Connect(ctx, a.config.PG)
			if err != nil {
				return err
			}
			a.db = db
			a.closers = append(a.closers, db.Close)

			if a.config.AutoMigrate {
				if err := pg.Migrate(ctx, db, migrations.FS, a.config.PG, a.logger); err != nil {
					return err
				}
			}
		}

		a.registry.MustRegister(collectors.NewDBStatsCollector(a.db, metricsNamespace))
		a.checks = append(a.checks, pg.Healthcheck(a.db))

		if a.accountRepo == nil {
			a.accountRepo = account.NewPostgresRepository(a.db)
		}
		if a.documentRepo == nil {
			a.documentRepo = document.NewPostgresRepository(a.db)
		}
	}

	if a.blobs == nil {
		store, err := s3.New(ctx, a.config.S3)
		if err != nil {
			return err
		}
		a.blobs = store
	}
	return nil
}

func (a *App) initLimiter(ctx context.Context) error {
	if a.limitStore == nil {
		switch {
		case a.redis != nil:
			a.limitStore = ratelimiter.NewRedisStore(a.redis)
		case a.config.Redis.Enabled():
			client, err := redis.Connect(ctx, a.config.Redis)
			if err != nil {
				return err
			}
			a.redis = client
			a.closers = append(a.closers, client.Close)
			a.limitStore = ratelimiter.NewRedisStore(client)
		default:
			// A bucket idle for a whole window is full again, so dropping it is lossless.
			store := ratelimiter.NewMemoryStore(
				ratelimiter.WithMemoryStoreLogger(a.logger),
				ratelimiter.WithMemoryStoreClock(a.now),
				ratelimiter.WithStaleAfter(a.config.LoginRateWindow),
			)
			a.limitStore = store
			a.workers = append(a.workers, store.Run)
		}
	}
	if a.redis != nil {
		a.checks = append(a.checks, redis.Healthcheck(a.redis))
	}

	limiter, err := ratelimiter.NewBucket(
		a.limitStore,
		ratelimiter.PerWindow(a.config.LoginRateLimit, a.config.LoginRateWindow),
		ratelimiter.WithClock(a.now),
	)
	if err != nil {
		return err
	}
	a.limiter = limiter
	return nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves HTTP and runs the background workers until ctx is cancelled,
// then shuts down gracefully and releases connections.
func (a *App) Run(ctx context.Context) error {
	srv, err := server.NewFromConfig(a.config.Server, server.WithLogger(a.logger))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, a))
	for _, worker := range a.workers {
		g.Go(worker(ctx))
	}

	return errors.Join(g.Wait(), a.Close())
}

// Close releases connections opened by New, newest first.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range slices.Backward(a.closers) {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
