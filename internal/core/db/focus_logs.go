package db

import (
	"context"
	"fmt"

	"github.com/neilberkman/habitrider/internal/core/models"
)

// AppendFocusLog stores a finished timer session
func (db *DB) AppendFocusLog(ctx context.Context, e models.FocusLog) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO focus_logs
		(session_id, habit_id, habit_name, kind, planned_seconds, elapsed_seconds, outcome, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.SessionID, e.HabitID, e.HabitName, e.Kind, e.PlannedSeconds, e.ElapsedSeconds,
		string(e.Outcome), formatTime(e.StartedAt), formatTime(e.EndedAt))
	if err != nil {
		return fmt.Errorf("append focus log: %w", err)
	}
	return nil
}

// ListFocusLogs returns the most recent sessions, newest first. An empty
// habitID lists every habit.
func (db *DB) ListFocusLogs(habitID string, limit int) ([]models.FocusLog, error) {
	query := `
		SELECT id, session_id, habit_id, habit_name, kind, planned_seconds,
		       elapsed_seconds, outcome, started_at, ended_at
		FROM focus_logs`
	var args []interface{}
	if habitID != "" {
		query += ` WHERE habit_id = ?`
		args = append(args, habitID)
	}
	query += ` ORDER BY ended_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.FocusLog
	for rows.Next() {
		var l models.FocusLog
		var outcome, startedAt, endedAt string
		if err := rows.Scan(&l.ID, &l.SessionID, &l.HabitID, &l.HabitName, &l.Kind,
			&l.PlannedSeconds, &l.ElapsedSeconds, &outcome, &startedAt, &endedAt); err != nil {
			return nil, err
		}
		l.Outcome = models.FocusOutcome(outcome)
		l.StartedAt = parseTime(startedAt)
		l.EndedAt = parseTime(endedAt)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// FocusMinutes sums elapsed work time for habitID (all habits when empty)
func (db *DB) FocusMinutes(habitID string) (int, error) {
	query := `SELECT COALESCE(SUM(elapsed_seconds), 0) FROM focus_logs WHERE kind = 'work'`
	var args []interface{}
	if habitID != "" {
		query += ` AND habit_id = ?`
		args = append(args, habitID)
	}
	var seconds int
	if err := db.conn.QueryRow(query, args...).Scan(&seconds); err != nil {
		return 0, err
	}
	return seconds / 60, nil
}
