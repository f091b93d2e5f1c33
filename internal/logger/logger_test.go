package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliancedocs/internal/config"
)

func TestNewJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("WIB", 7*60*60)
	log := slog.New(NewJSONHandler(&buf, loc, slog.LevelInfo))

	log.Debug("hidden")
	log.Info("document_uploaded", "component", "service", "subject_id", "doc-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "document_uploaded", entry["msg"])
	assert.Equal(t, "service", entry["component"])
	assert.Equal(t, "INFO", entry["level"])
	assert.NotContains(t, entry, "time")

	ts, err := time.Parse(time.RFC3339Nano, entry["ts"].(string))
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestInit_SetsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	log := Init(config.LogConfig{Dev: true, TimeZone: "UTC"})

	assert.Same(t, log, slog.Default())
	assert.True(t, log.Enabled(t.Context(), slog.LevelDebug))
}
