package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger_WritesRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelDebug)

	logger.Info("processing question", "target", "Acme Capital")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "processing question", record["msg"])
	assert.Equal(t, "Acme Capital", record["target"])
}

func TestNewJSONLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelWarn)

	logger.Debug("hidden")
	logger.Info("also hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogProviderCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelDebug)

	LogProviderCall(logger, "gemini", "gemini-1.5-pro", 42, 120*time.Millisecond, nil)
	assert.Contains(t, buf.String(), "provider call completed")
	assert.Contains(t, buf.String(), "token_count")

	buf.Reset()
	LogProviderCall(logger, "gemini", "gemini-1.5-pro", 0, time.Millisecond, errors.New("quota"))
	assert.Contains(t, buf.String(), "provider call failed")
	assert.Contains(t, buf.String(), "quota")
}

func TestLogBatch(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelDebug)

	LogBatch(logger, 2, 3, 2, 1, 80*time.Millisecond)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "batch completed", record["msg"])
	assert.Equal(t, float64(2), record["batch"])
	assert.Equal(t, float64(3), record["size"])
	assert.Equal(t, float64(2), record["completed"])
	assert.Equal(t, float64(1), record["failed"])
}

func TestNoOpLogger(t *testing.T) {
	// Must be safe to call with any arguments.
	var l Logger = NoOpLogger{}
	l.Debug("a")
	l.Info("b", "k", "v")
	l.Warn("c")
	l.Error("d", "err", errors.New("x"))
}
