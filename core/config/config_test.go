package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/receiptbook/core/config"
)

type sampleConfig struct {
	Secret  string        `env:"CONFIG_TEST_SECRET,required"`
	Limit   int           `env:"CONFIG_TEST_LIMIT" envDefault:"5"`
	Window  time.Duration `env:"CONFIG_TEST_WINDOW" envDefault:"1m"`
	Enabled bool          `env:"CONFIG_TEST_ENABLED"`
}

type missingConfig struct {
	Value string `env:"CONFIG_TEST_DEFINITELY_UNSET,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_TEST_SECRET", "s3cr3t")
	t.Setenv("CONFIG_TEST_ENABLED", "true")
	config.Reset[sampleConfig]()
	t.Cleanup(config.Reset[sampleConfig])

	var cfg sampleConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "s3cr3t", cfg.Secret)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
	assert.True(t, cfg.Enabled)

	t.Run("cached after first load", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_SECRET", "changed")

		var again sampleConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, "s3cr3t", again.Secret)
	})
}

func TestLoadMissingRequired(t *testing.T) {
	config.Reset[missingConfig]()

	var cfg missingConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.Panics(t, func() {
		config.MustLoad(&missingConfig{})
	})
}
