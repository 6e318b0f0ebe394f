package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Output: &buf})
	require.NoError(t, err)
	defer func() { _ = closer() }()

	logger.Debug("hidden")
	logger.Info("shown", "habit", "read")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "habit=read")
	assert.Contains(t, buf.String(), "app=habitrider")

	buf.Reset()
	verbose, _, err := New(Config{Output: &buf, Verbose: true})
	require.NoError(t, err)
	verbose.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Output: &buf, Format: FormatJSON})
	require.NoError(t, err)

	logger.Info("tick", "remaining", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tick", entry["msg"])
	assert.EqualValues(t, 42, entry["remaining"])
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "habitrider.log")
	logger, closer, err := New(Config{FilePath: path})
	require.NoError(t, err)

	logger.Warn("written to file")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
