package receiptbook

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/core/server"
	"github.com/dmitrymomot/receiptbook/integration/database/pg"
	"github.com/dmitrymomot/receiptbook/integration/database/redis"
	"github.com/dmitrymomot/receiptbook/integration/storage/s3"
)

// MinJWTSecretLength is the shortest accepted signing secret, in bytes.
const MinJWTSecretLength = 32

var (
	ErrWeakJWTSecret         = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrInvalidLoginRateLimit = errors.New("login rate limit must be positive")
)

// Config is the full service configuration, loaded from the environment.
type Config struct {
	Server server.Config
	PG     pg.Config
	Redis  redis.Config
	S3     s3.Config
	Log    logger.Config

	JWTSecret       string        `env:"JWT_SECRET,required"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
	MaxBodySize     int64         `env:"HTTP_MAX_BODY_SIZE" envDefault:"1048576"`
	AutoMigrate     bool          `env:"PG_AUTO_MIGRATE" envDefault:"true"`

	// AdminEmail and AdminPassword bootstrap the first admin account.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Validate checks the values env tags cannot express.
func (c Config) Validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return ErrWeakJWTSecret
	}
	if c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0 {
		return fmt.Errorf("%w: %d per %s", ErrInvalidLoginRateLimit, c.LoginRateLimit, c.LoginRateWindow)
	}
	return nil
}
