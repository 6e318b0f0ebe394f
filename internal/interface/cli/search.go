package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neilberkman/habitrider/internal/core/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search habits",
	Long: `Search habit names and descriptions.

Uses FTS5 full-text search with porter stemming. Words match as prefixes.

Filters:
  folder:<name>               only habits in a folder
  after:<date> before:<date>  habits done inside a date range
  done:today | done:no        done (or not) today
  archived:yes                include archived habits

Examples:
  habitrider search read
  habitrider search folder:health done:no
  habitrider search after:last-week`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Join all args as query
	query := strings.Join(args, " ")

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	filters := search.ParseQuery(query)
	logger.Debug("search", "query", filters.Query, "folder", filters.Folder, "done", filters.Done)

	habits, err := search.Habits(database, filters)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(habits) == 0 {
		ui.Info("No habits found for: %s", query)
		return nil
	}
	return printHabits(database, habits)
}
