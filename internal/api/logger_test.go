package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"junk":  slog.LevelInfo,
	}

	for value, want := range cases {
		t.Setenv("LOG_LEVEL", value)
		require.Equal(t, want, logLevelFromEnv(), "LOG_LEVEL=%q", value)
	}
}

func TestOtelHandler_PassesRecordsThrough(t *testing.T) {
	var buf bytes.Buffer
	handler := NewOtelHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler).With(slog.String("service", "club-service"))

	logger.InfoContext(context.Background(), "session created", slog.Int("occurrences", 3))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "session created", decoded["msg"])
	require.Equal(t, "club-service", decoded["service"])
	require.EqualValues(t, 3, decoded["occurrences"])
	// No active span: records must not grow trace attributes.
	require.NotContains(t, decoded, "trace_id")
}
