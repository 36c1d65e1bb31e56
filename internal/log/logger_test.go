package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentLoader,
		Handler:   NewHandler(&buf, slog.LevelInfo, "json"),
	})

	logger.WithComponent(ComponentSales).Info("Run finished",
		NewFields().WithRun("20", 4, 1, 3, 0.5).WithError(errors.New("boom")).ToSlice()...)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "Run finished", entry["msg"])
	require.Equal(t, ComponentSales, entry[FieldComponent])
	require.Equal(t, "20", entry[FieldTotal])
	require.Equal(t, float64(3), entry[FieldErrorCount])
	require.Equal(t, "boom", entry[FieldError])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: NewHandler(&buf, slog.LevelWarn, "text")})

	logger.Info("hidden")
	require.Zero(t, buf.Len())

	logger.Warn("shown")
	require.Contains(t, buf.String(), "shown")
}
