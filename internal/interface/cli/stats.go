package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/habitrider/internal/core/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats [habit]",
	Short: "Show statistics",
	Long: `Display statistics about your habits.

Without arguments shows totals for the whole database. With a habit shows
its streaks and focus time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if len(args) == 1 {
		h, err := database.FindHabit(args[0])
		if err != nil {
			return err
		}
		streak, err := database.HabitStreak(h.ID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to compute streak: %w", err)
		}
		minutes, err := database.FocusMinutes(h.ID)
		if err != nil {
			return fmt.Errorf("failed to sum focus time: %w", err)
		}

		fmt.Println(output.Cyan(h.Name))
		fmt.Println()
		fmt.Printf("Folder:          %s\n", h.Folder)
		fmt.Printf("Added:           %s\n", humanize.Time(h.CreatedAt))
		fmt.Printf("Current Streak:  %s days\n", output.StreakColor(streak.Current))
		fmt.Printf("Longest Streak:  %d days\n", streak.Longest)
		fmt.Printf("Times Done:      %s\n", humanize.Comma(int64(streak.Total)))
		fmt.Printf("Focus Time:      %s\n", formatMinutes(minutes))
		return nil
	}

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	fmt.Println("Database Statistics")
	fmt.Println("===================")
	fmt.Println()
	fmt.Printf("Active Habits:     %d\n", stats.ActiveHabits)
	fmt.Printf("Archived Habits:   %d\n", stats.ArchivedHabits)
	fmt.Printf("Folders:           %d\n", stats.Folders)
	fmt.Println()
	fmt.Printf("Completions:       %s (%s from timers)\n",
		humanize.Comma(int64(stats.TotalCompletions)), humanize.Comma(int64(stats.TimerCompletions)))
	fmt.Printf("Focus Sessions:    %s\n", humanize.Comma(int64(stats.FocusSessions)))
	fmt.Printf("Focus Time:        %s\n", formatMinutes(stats.FocusMinutes))
	fmt.Println()

	if stats.TotalCompletions > 0 {
		fmt.Printf("First Completion:  %s\n", stats.FirstCompletion.Format("Jan 2, 2006"))
		fmt.Printf("Last Completion:   %s\n", stats.LastCompletion.Format("Jan 2, 2006"))
		fmt.Printf("Most Done:         %s (%d times)\n", stats.MostDoneHabit, stats.MostDoneCount)
		fmt.Println()
	}

	fileInfo, err := os.Stat(dbPath)
	if err != nil {
		return fmt.Errorf("failed to stat database file: %w", err)
	}
	fmt.Printf("Database Location: %s\n", dbPath)
	fmt.Printf("Database Size:     %s\n", humanize.Bytes(uint64(fileInfo.Size())))
	return nil
}

// formatMinutes renders a minute count as "3h 20m"
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
