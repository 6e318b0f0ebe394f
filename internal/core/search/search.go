package search

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/models"
)

// Habits returns habits matching f, ordered by name
func Habits(database *db.DB, f Filters) ([]models.Habit, error) {
	query := `SELECT ` + db.HabitColumns + ` FROM habits WHERE 1=1`
	var args []interface{}

	if !f.IncludeArchived {
		query += ` AND archived_at IS NULL`
	}
	if f.Folder != "" {
		query += ` AND folder = ? COLLATE NOCASE`
		args = append(args, f.Folder)
	}
	if match := matchExpr(f.Query); match != "" {
		query += ` AND rowid IN (SELECT rowid FROM habits_fts WHERE habits_fts MATCH ?)`
		args = append(args, match)
	}
	if f.HasAfter || f.HasBefore {
		sub := `SELECT habit_id FROM completions WHERE 1=1`
		if f.HasAfter {
			sub += ` AND day >= ?`
			args = append(args, models.Day(f.After))
		}
		if f.HasBefore {
			sub += ` AND day <= ?`
			args = append(args, models.Day(f.Before))
		}
		query += ` AND id IN (` + sub + `)`
	}
	switch f.Done {
	case DoneYes:
		query += ` AND id IN (SELECT habit_id FROM completions WHERE day = ?)`
		args = append(args, models.Day(f.Day))
	case DoneNo:
		query += ` AND id NOT IN (SELECT habit_id FROM completions WHERE day = ?)`
		args = append(args, models.Day(f.Day))
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := database.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []models.Habit
	for rows.Next() {
		h, err := db.ScanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return results, nil
}

// matchExpr turns free text into an FTS5 expression where every word is a
// quoted prefix term, so punctuation never reaches the FTS parser
func matchExpr(text string) string {
	var terms []string
	for _, word := range strings.Fields(text) {
		if strings.IndexFunc(word, isWordRune) < 0 {
			continue
		}
		word = strings.ReplaceAll(word, `"`, `""`)
		terms = append(terms, `"`+word+`"*`)
	}
	return strings.Join(terms, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
