package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestTextLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Config{Level: slog.LevelInfo, Writer: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("shown", "key", "KEY_A")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=KEY_A")
}

func TestJSONDebug(t *testing.T) {
	var buf bytes.Buffer
	cfg := Debug(FormatJSON)
	cfg.Writer = &buf
	logger, closeFn, err := New(cfg)
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("key down", "note", 36)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "key down", rec["msg"])
	assert.Equal(t, float64(36), rec["note"])
	assert.Contains(t, rec, slog.SourceKey)
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bass.log")
	logger, closeFn, err := New(Config{FilePath: path})
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
