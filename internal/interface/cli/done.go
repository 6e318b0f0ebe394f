package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/habitrider/internal/core/models"
	"github.com/neilberkman/habitrider/internal/core/output"
	"github.com/neilberkman/habitrider/internal/core/search"
)

var (
	doneNote string
	doneDay  string
)

var doneCmd = &cobra.Command{
	Use:   "done <habit>",
	Short: "Mark a habit done for today",
	Long: `Mark a habit done. Use --day to log another date.

Examples:
  habitrider done Read
  habitrider done "Morning run" --note "5k in the rain"
  habitrider done Read --day yesterday`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var undoCmd = &cobra.Command{
	Use:   "undo <habit>",
	Short: "Remove today's completion for a habit",
	Args:  cobra.ExactArgs(1),
	RunE:  runUndo,
}

func init() {
	rootCmd.AddCommand(doneCmd, undoCmd)
	doneCmd.Flags().StringVarP(&doneNote, "note", "n", "", "Note to attach")
	doneCmd.Flags().StringVar(&doneDay, "day", "", "Day to log (e.g. yesterday, 2024-05-01)")
	undoCmd.Flags().StringVar(&doneDay, "day", "", "Day to clear")
}

// resolveDay parses --day with the same date rules as search filters
func resolveDay() (time.Time, error) {
	if doneDay == "" {
		return time.Now(), nil
	}
	f := search.ParseQuery("after:" + doneDay)
	if !f.HasAfter {
		return time.Time{}, fmt.Errorf("could not understand day %q", doneDay)
	}
	return f.After, nil
}

func runDone(cmd *cobra.Command, args []string) error {
	day, err := resolveDay()
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	h, err := database.FindHabit(args[0])
	if err != nil {
		return err
	}
	if err := database.MarkDone(h.ID, day, models.SourceManual, doneNote); err != nil {
		return err
	}

	streak, err := database.HabitStreak(h.ID, time.Now())
	if err != nil {
		return err
	}
	ui.Success("%s done for %s (streak %s)", output.Cyan(h.Name), models.Day(day), output.StreakColor(streak.Current))
	return nil
}

func runUndo(cmd *cobra.Command, args []string) error {
	day, err := resolveDay()
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	h, err := database.FindHabit(args[0])
	if err != nil {
		return err
	}
	removed, err := database.UnmarkDone(h.ID, day)
	if err != nil {
		return err
	}
	if !removed {
		ui.Warning("%s was not done on %s", h.Name, models.Day(day))
		return nil
	}
	ui.Success("Cleared %s for %s", output.Cyan(h.Name), models.Day(day))
	return nil
}
