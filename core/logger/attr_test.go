package logger_test

import (
	"errors"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/receiptbook/core/logger"
)

func TestEmptyInputsYieldEmptyAttr(t *testing.T) {
	t.Parallel()

	for name, attr := range map[string]slog.Attr{
		"error":       logger.Error(nil),
		"request_id":  logger.RequestID(""),
		"user_id":     logger.UserID(""),
		"company_id":  logger.CompanyID(""),
		"role":        logger.Role(""),
		"route":       logger.Route(""),
		"query":       logger.Query(""),
		"remote_addr": logger.RemoteAddr(""),
	} {
		assert.True(t, attr.Equal(slog.Attr{}), name)
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
}

func TestScalarHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(404), logger.StatusCode(404).Value.Int64())
	assert.Equal(t, "GET", logger.Method("GET").Value.String())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, "u-1", logger.UserID("u-1").Value.String())
	assert.Equal(t, "remote_addr", logger.RemoteAddr("10.0.0.1:1234").Key)
}

func TestQueryRedaction(t *testing.T) {
	t.Parallel()

	t.Run("no redaction keys", func(t *testing.T) {
		t.Parallel()
		attr := logger.Query("a=1&token=secret")
		assert.Equal(t, "a=1&token=secret", attr.Value.String())
	})

	t.Run("redacts named key", func(t *testing.T) {
		t.Parallel()
		attr := logger.Query("a=1&token=secret", "token")
		assert.Equal(t, "query", attr.Key)
		assert.NotContains(t, attr.Value.String(), "secret")

		values, err := url.ParseQuery(attr.Value.String())
		require.NoError(t, err)
		assert.Equal(t, "[REDACTED]", values.Get("token"))
		assert.Equal(t, "1", values.Get("a"))
	})

	t.Run("unparsable query", func(t *testing.T) {
		t.Parallel()
		attr := logger.Query("token=%zz", "token")
		assert.Equal(t, "[UNPARSABLE]", attr.Value.String())
	})
}

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("http", logger.Method("POST"), logger.StatusCode(201))
	assert.Equal(t, "http", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	assert.Len(t, attr.Value.Group(), 2)
}
