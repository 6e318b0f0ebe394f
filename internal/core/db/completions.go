package db

import (
	"context"
	"fmt"
	"time"

	"github.com/neilberkman/habitrider/internal/core/models"
)

// RecordCompletion marks habitID done on day's date from a finished timer.
// A day already marked done keeps its original source.
func (db *DB) RecordCompletion(ctx context.Context, habitID string, day time.Time) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO completions (habit_id, day, source, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING
	`, habitID, models.Day(day), string(models.SourceTimer), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

// MarkDone records a completion for day, replacing the note of an existing one
func (db *DB) MarkDone(habitID string, day time.Time, source models.CompletionSource, note string) error {
	_, err := db.conn.Exec(`
		INSERT INTO completions (habit_id, day, source, note, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET note = excluded.note
	`, habitID, models.Day(day), string(source), note, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("mark done: %w", err)
	}
	return nil
}

// UnmarkDone removes the completion for day. It reports whether one existed.
func (db *DB) UnmarkDone(habitID string, day time.Time) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM completions WHERE habit_id = ? AND day = ?`,
		habitID, models.Day(day))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// IsDone reports whether habitID has a completion on day
func (db *DB) IsDone(habitID string, day time.Time) (bool, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM completions WHERE habit_id = ? AND day = ?
	`, habitID, models.Day(day)).Scan(&n)
	return n > 0, err
}

// DoneOn returns the set of habit IDs completed on day
func (db *DB) DoneOn(day time.Time) (map[string]bool, error) {
	rows, err := db.conn.Query(`SELECT habit_id FROM completions WHERE day = ?`, models.Day(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		done[id] = true
	}
	return done, rows.Err()
}

// CompletionsBetween returns completions for habitID with from <= day <= to,
// newest first. An empty habitID matches every habit.
func (db *DB) CompletionsBetween(habitID string, from, to time.Time) ([]models.Completion, error) {
	query := `
		SELECT habit_id, day, source, note, created_at FROM completions
		WHERE day >= ? AND day <= ?`
	args := []interface{}{models.Day(from), models.Day(to)}
	if habitID != "" {
		query += ` AND habit_id = ?`
		args = append(args, habitID)
	}
	query += ` ORDER BY day DESC, habit_id`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Completion
	for rows.Next() {
		var c models.Completion
		var source, createdAt string
		if err := rows.Scan(&c.HabitID, &c.Day, &source, &c.Note, &createdAt); err != nil {
			return nil, err
		}
		c.Source = models.CompletionSource(source)
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}
