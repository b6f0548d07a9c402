package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/receiptbook/core/logger"
)

type ctxKey struct{}

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithJSONFormatter(),
		logger.WithLevel(slog.LevelWarn),
		logger.WithAttr(slog.String("app", "test")),
	)

	log.Info("dropped")
	log.Warn("kept", logger.UserID("u-1"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "test", rec["app"])
	assert.Equal(t, "u-1", rec["user_id"])
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithJSONFormatter(),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			id, ok := ctx.Value(ctxKey{}).(string)
			return logger.RequestID(id), ok
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-42")
	log.With("component", "test").InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "req-42", rec["request_id"])
	assert.Equal(t, "test", rec["component"])
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewFromConfig(logger.Config{
		Level:   "debug",
		Format:  "json",
		AppName: "receiptbook",
		Env:     "test",
	}, logger.WithOutput(&buf))

	log.Debug("visible")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "receiptbook", rec["app"])
	assert.Equal(t, "test", rec["env"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
}
