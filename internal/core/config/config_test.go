package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilberkman/habitrider/internal/core/window"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 25, cfg.WorkMinutes)
	assert.Equal(t, 3, cfg.Overscan)
	assert.Equal(t, 150*time.Millisecond, cfg.QuietPeriod())
}

func TestLoadFile_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
work_minutes = 50
auto_advance = true
completion_message = "Nice, {{habit}}!"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.WorkMinutes)
	assert.Equal(t, 5, cfg.ShortBreakMinutes)
	assert.True(t, cfg.AutoAdvance)

	cycle := cfg.Cycle()
	assert.Equal(t, 50, cycle.WorkMinutes)
	assert.Equal(t, 4, cycle.LongBreakEvery)
	assert.True(t, cycle.AutoAdvance)

	msgs := cfg.Messages()
	assert.Equal(t, "Nice, {{habit}}!", msgs.Completion)
	assert.NotEmpty(t, msgs.Failure)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "work_minutes = ="},
		{"zero work", "work_minutes = 0"},
		{"negative break", "short_break_minutes = -5"},
		{"negative overscan", "overscan = -1"},
		{"negative quiet period", "scroll_quiet_ms = -10"},
		{"unknown jump align", `jump_align = "middle"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, tt.content)
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestJumpAlign(t *testing.T) {
	assert.Equal(t, window.AlignCenter, Default().Align())

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `jump_align = "start"`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, window.AlignStart, cfg.Align())
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.LongBreakEvery = 3
	cfg.DBPath = "/tmp/h.db"

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	assert.Contains(t, buf.String(), "long_break_every = 3")

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, buf.String())
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "work_minutes = 25\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config, err error) {
			if err == nil {
				reloaded <- cfg
			}
		})
	}()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "work_minutes = 45\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 45, cfg.WorkMinutes)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)
	}()
	require.NoError(t, Watch(ctx, path, func(*Config, error) { calls++ }))
	assert.Zero(t, calls)
}
