package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssrkit/core/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.Info("listening", logger.URL("http://localhost:8080"))
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "msg=listening")
	assert.Contains(t, buf.String(), "url=http://localhost:8080")
}

func TestEnvironmentPresets(t *testing.T) {
	t.Parallel()

	t.Run("development", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("ssrkit"), logger.WithOutput(&buf))
		log.Debug("debug line")
		assert.Contains(t, buf.String(), "service=ssrkit")
		assert.Contains(t, buf.String(), "level=DEBUG")
	})

	t.Run("production", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("ssrkit"), logger.WithOutput(&buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
		log.Info("shown")
		entry := decode(t, &buf)
		assert.Equal(t, "ssrkit", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})

	t.Run("staging", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithStaging("ssrkit"), logger.WithOutput(&buf))
		log.Info("shown")
		assert.Equal(t, "staging", decode(t, &buf)["env"])
	})
}

func TestFormatterOverrides(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithProduction("ssrkit"),
		logger.WithTextFormatter(),
		logger.WithLevel(slog.LevelWarn),
		logger.WithOutput(&buf),
	)
	log.Info("hidden")
	assert.Empty(t, buf.String())
	log.Warn("shown")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestWithHandlerOptions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithHandlerOptions(&slog.HandlerOptions{
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}),
	)
	log.Info("no time")
	entry := decode(t, &buf)
	assert.NotContains(t, entry, "time")
	assert.Equal(t, "no time", entry["msg"])
}

type requestIDKey struct{}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextValue("request_id", requestIDKey{}),
	).With(logger.Component("test"))

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-1")
	log.InfoContext(ctx, "with id")
	entry := decode(t, &buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "test", entry["component"])

	buf.Reset()
	log.InfoContext(context.Background(), "without id")
	assert.NotContains(t, decode(t, &buf), "request_id")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := logger.ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, slog.Attr{}, logger.RequestID(""))
	assert.Equal(t, slog.Attr{}, logger.ResponseTime(""))
	assert.Equal(t, slog.Attr{}, logger.Kind(""))

	assert.Equal(t, "boom", logger.Error(errors.New("boom")).Value.String())
	assert.Equal(t, int64(404), logger.StatusCode(404).Value.Int64())
	assert.Equal(t, "status", logger.StatusCode(404).Key)
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, "12ms", logger.ResponseTime("12ms").Value.String())
	assert.Equal(t, "markdown", logger.Span("markdown").Value.String())
	assert.Equal(t, "trace", logger.Stack([]byte("trace")).Value.String())
	assert.Contains(t, logger.Stack(nil).Value.String(), "goroutine")

	group := logger.Group("req", logger.Method("GET"), logger.Path("/"))
	assert.Len(t, group.Value.Group(), 2)
}
