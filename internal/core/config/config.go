package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/neilberkman/habitrider/internal/core/timer"
	"github.com/neilberkman/habitrider/internal/core/window"
)

// AppName names the config directory under ~/.config
const AppName = "habitrider"

// Config holds user settings from config.toml
type Config struct {
	WorkMinutes       int  `toml:"work_minutes"`
	ShortBreakMinutes int  `toml:"short_break_minutes"`
	LongBreakMinutes  int  `toml:"long_break_minutes"`
	LongBreakEvery    int  `toml:"long_break_every"`
	AutoAdvance       bool `toml:"auto_advance"`

	Overscan      int    `toml:"overscan"`
	ScrollQuietMS int    `toml:"scroll_quiet_ms"`
	JumpAlign     string `toml:"jump_align"` // where z and search jumps place the row: start, end, center, auto

	// Mustache templates for timer notifications
	CompletionMessage string `toml:"completion_message"`
	FailureMessage    string `toml:"failure_message"`
	BreakMessage      string `toml:"break_message"`

	DBPath string `toml:"db_path,omitempty"` // Overrides the default database location
}

// Default returns the built-in settings
func Default() *Config {
	cycle := timer.DefaultCycleConfig()
	return &Config{
		WorkMinutes:       cycle.WorkMinutes,
		ShortBreakMinutes: cycle.ShortBreakMinutes,
		LongBreakMinutes:  cycle.LongBreakMinutes,
		LongBreakEvery:    cycle.LongBreakEvery,
		Overscan:          window.DefaultOverscan,
		ScrollQuietMS:     int(window.DefaultQuietPeriod / time.Millisecond),
		JumpAlign:         "center",
		CompletionMessage: timer.DefaultCompletionMessage,
		FailureMessage:    timer.DefaultFailureMessage,
		BreakMessage:      timer.DefaultBreakMessage,
	}
}

// Dir returns ~/.config/habitrider
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Path returns the location of config.toml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultDBPath returns the database location used when none is configured
func DefaultDBPath() string {
	dir, err := Dir()
	if err != nil {
		return "habits.db"
	}
	return filepath.Join(dir, "habits.db")
}

// Load reads config from ~/.config/habitrider/
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil // Use defaults
	}
	return LoadFile(path)
}

// LoadFile reads config from path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the timer or list cannot run with
func (c *Config) Validate() error {
	positive := []struct {
		key   string
		value int
	}{
		{"work_minutes", c.WorkMinutes},
		{"short_break_minutes", c.ShortBreakMinutes},
		{"long_break_minutes", c.LongBreakMinutes},
		{"long_break_every", c.LongBreakEvery},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.key, p.value)
		}
	}
	if c.Overscan < 0 {
		return fmt.Errorf("overscan must not be negative, got %d", c.Overscan)
	}
	if c.ScrollQuietMS < 0 {
		return fmt.Errorf("scroll_quiet_ms must not be negative, got %d", c.ScrollQuietMS)
	}
	switch c.JumpAlign {
	case "start", "end", "center", "auto":
	default:
		return fmt.Errorf("jump_align must be start, end, center or auto, got %q", c.JumpAlign)
	}
	return nil
}

// Cycle converts the phase settings for timer.NewCycle
func (c *Config) Cycle() timer.CycleConfig {
	return timer.CycleConfig{
		WorkMinutes:       c.WorkMinutes,
		ShortBreakMinutes: c.ShortBreakMinutes,
		LongBreakMinutes:  c.LongBreakMinutes,
		LongBreakEvery:    c.LongBreakEvery,
		AutoAdvance:       c.AutoAdvance,
	}
}

// Messages returns the notification templates for the timer engine
func (c *Config) Messages() timer.Messages {
	return timer.Messages{
		Completion: c.CompletionMessage,
		Failure:    c.FailureMessage,
		Break:      c.BreakMessage,
	}
}

// Align is where jumps place the target row in the list
func (c *Config) Align() window.Align {
	return window.ParseAlign(c.JumpAlign)
}

// QuietPeriod is how long scrolling must pause before the list settles
func (c *Config) QuietPeriod() time.Duration {
	return time.Duration(c.ScrollQuietMS) * time.Millisecond
}

// Write encodes the config as TOML
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
