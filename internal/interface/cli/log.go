package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/habitrider/internal/core/output"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log [habit]",
	Short: "Show recent focus sessions",
	Long: `Show finished and stopped timer sessions, newest first.

Examples:
  habitrider log
  habitrider log Read --limit 50`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().IntVar(&logLimit, "limit", 20, "Maximum number of sessions to display")
}

func runLog(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	habitID := ""
	if len(args) == 1 {
		h, err := database.FindHabit(args[0])
		if err != nil {
			return err
		}
		habitID = h.ID
	}

	logs, err := database.ListFocusLogs(habitID, logLimit)
	if err != nil {
		return fmt.Errorf("failed to load focus log: %w", err)
	}
	if len(logs) == 0 {
		ui.Info("No focus sessions yet. Start one with 'habitrider focus <habit>'.")
		return nil
	}

	table := ui.Table([]string{"Habit", "Kind", "Outcome", "Time", "Ended"})
	for _, l := range logs {
		_ = table.Append([]string{
			l.HabitName,
			l.Kind,
			output.StateColor(string(l.Outcome)),
			fmt.Sprintf("%s / %s", output.Clock(l.ElapsedSeconds), output.Clock(l.PlannedSeconds)),
			humanize.Time(l.EndedAt),
		})
	}
	return table.Render()
}
