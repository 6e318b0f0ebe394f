package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/neilberkman/habitrider/internal/core/config"
	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/logging"
	"github.com/neilberkman/habitrider/internal/core/output"
)

var (
	dbPath      string
	configPath  string
	verbose     bool
	versionInfo string

	cfg    *config.Config
	logger *slog.Logger
	ui     *output.UI
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "habitrider",
	Short: "Terminal habit tracker with focus timers",
	Long: `habitrider - track daily habits and run focus timers from the terminal

Habits live in a local SQLite database. A finished focus session marks its
habit done for the day; pomodoro cycles alternate work and breaks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	defaultConfig, err := config.Path()
	if err != nil {
		defaultConfig = "config.toml"
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "Database path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// setup loads config and builds the shared UI and logger. Commands that own
// the terminal replace the logger with a file logger.
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if cfg.DBPath != "" && !cmd.Flags().Changed("db") {
		dbPath = cfg.DBPath
	}

	ui = output.New()
	ui.Verbose = verbose

	logger, _, err = logging.New(logging.Config{Verbose: verbose})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func openDB() (*db.DB, error) {
	database, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("opened database", "path", dbPath)
	return database, nil
}

// fileLogger logs next to the config file. Interactive commands own the
// terminal and cannot share stderr with the log.
func fileLogger() (*slog.Logger, func() error, error) {
	dir, err := config.Dir()
	if err != nil {
		dir = filepath.Dir(dbPath)
	}
	return logging.New(logging.Config{
		Verbose:  verbose,
		FilePath: filepath.Join(dir, "habitrider.log"),
	})
}
