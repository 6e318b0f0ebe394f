package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/models"
	"github.com/neilberkman/habitrider/internal/core/output"
)

var (
	habitFolder      string
	habitDescription string
	habitTarget      int
	habitName        string
	listArchived     bool
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"habits", "h"},
	Short:   "Manage habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit",
	Long: `Add a habit to track.

Examples:
  habitrider habit add "Read"
  habitrider habit add "Morning run" --folder Health --target 30`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHabitAdd,
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with today's status",
	RunE:    runHabitList,
}

var habitEditCmd = &cobra.Command{
	Use:   "edit <habit>",
	Short: "Rename a habit or change its description or target",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitEdit,
}

var habitMoveCmd = &cobra.Command{
	Use:   "mv <habit> <folder>",
	Short: "Move a habit to another folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runHabitMove,
}

var habitArchiveCmd = &cobra.Command{
	Use:   "archive <habit>",
	Short: "Archive a habit, keeping its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitArchive,
}

var habitUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <habit>",
	Short: "Restore an archived habit",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitUnarchive,
}

var habitRemoveCmd = &cobra.Command{
	Use:   "rm <habit>",
	Short: "Delete a habit and its completions",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitRemove,
}

func init() {
	rootCmd.AddCommand(habitCmd)
	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitEditCmd, habitMoveCmd,
		habitArchiveCmd, habitUnarchiveCmd, habitRemoveCmd)

	habitAddCmd.Flags().StringVarP(&habitFolder, "folder", "f", "", "Folder (default Inbox)")
	habitAddCmd.Flags().StringVarP(&habitDescription, "description", "d", "", "Description")
	habitAddCmd.Flags().IntVarP(&habitTarget, "target", "t", 0, "Default focus minutes")

	habitListCmd.Flags().StringVarP(&habitFolder, "folder", "f", "", "Only this folder")
	habitListCmd.Flags().BoolVarP(&listArchived, "archived", "a", false, "Include archived habits")

	habitEditCmd.Flags().StringVarP(&habitName, "name", "n", "", "New name")
	habitEditCmd.Flags().StringVarP(&habitDescription, "description", "d", "", "New description")
	habitEditCmd.Flags().IntVarP(&habitTarget, "target", "t", 0, "New default focus minutes")
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	h := &models.Habit{
		Name:          strings.Join(args, " "),
		Folder:        habitFolder,
		Description:   habitDescription,
		TargetMinutes: habitTarget,
	}
	if err := database.CreateHabit(h); err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}

	ui.Success("Added %s to %s", output.Cyan(h.Name), h.Folder)
	ui.VerboseLog("id %s", h.ID)
	return nil
}

func runHabitList(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	habits, err := database.ListHabits(db.ListOptions{Folder: habitFolder, IncludeArchived: listArchived})
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	if len(habits) == 0 {
		ui.Info("No habits yet. Add one with 'habitrider habit add <name>'.")
		return nil
	}
	return printHabits(database, habits)
}

// printHabits renders habits as a table with today's status and streaks
func printHabits(database *db.DB, habits []models.Habit) error {
	now := time.Now()
	done, err := database.DoneOn(now)
	if err != nil {
		return fmt.Errorf("failed to load today's completions: %w", err)
	}

	table := ui.Table([]string{"", "Habit", "Folder", "Streak", "Target", "ID", "Added"})
	for _, h := range habits {
		streak, err := database.HabitStreak(h.ID, now)
		if err != nil {
			return fmt.Errorf("failed to compute streak: %w", err)
		}
		name := h.Name
		if h.Archived() {
			name = output.Faint(name + " (archived)")
		}
		target := "-"
		if h.TargetMinutes > 0 {
			target = fmt.Sprintf("%dm", h.TargetMinutes)
		}
		_ = table.Append([]string{
			output.DoneMark(done[h.ID]),
			name,
			h.Folder,
			output.StreakColor(streak.Current),
			target,
			shortID(h.ID),
			humanize.Time(h.CreatedAt),
		})
	}
	return table.Render()
}

func runHabitEdit(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	h, err := database.FindHabit(args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("name") {
		h.Name = habitName
	}
	if cmd.Flags().Changed("description") {
		h.Description = habitDescription
	}
	if cmd.Flags().Changed("target") {
		h.TargetMinutes = habitTarget
	}
	if err := database.UpdateHabit(h); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	ui.Success("Updated %s", output.Cyan(h.Name))
	return nil
}

func runHabitMove(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	h, err := database.FindHabit(args[0])
	if err != nil {
		return err
	}
	if err := database.MoveHabit(h.ID, args[1]); err != nil {
		return fmt.Errorf("failed to move habit: %w", err)
	}
	ui.Success("Moved %s to %s", output.Cyan(h.Name), args[1])
	return nil
}

func runHabitArchive(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	h, err := database.FindHabit(args[0])
	if err != nil {
		return err
	}
	if err := database.ArchiveHabit(h.ID); err != nil {
		return fmt.Errorf("failed to archive habit: %w", err)
	}
	ui.Success("Archived %s", output.Cyan(h.Name))
	return nil
}

func runHabitUnarchive(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	h, err := database.FindHabit(args[0])
	if err != nil {
		return err
	}
	if err := database.UnarchiveHabit(h.ID); err != nil {
		return fmt.Errorf("failed to restore habit: %w", err)
	}
	ui.Success("Restored %s", output.Cyan(h.Name))
	return nil
}

func runHabitRemove(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	h, err := database.FindHabit(args[0])
	if err != nil {
		return err
	}
	if err := database.DeleteHabit(h.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	ui.Success("Deleted %s", output.Cyan(h.Name))
	return nil
}

// shortID trims a ULID to its random tail; FindHabit accepts it as a suffix
func shortID(id string) string {
	if len(id) > 10 {
		return strings.ToLower(id[len(id)-10:])
	}
	return strings.ToLower(id)
}
