package db

import (
	"fmt"
)

// runMigrations applies database migrations for existing databases
func (db *DB) runMigrations() error {
	// Migration 1: completion notes
	if err := db.migration001AddCompletionNote(); err != nil {
		return fmt.Errorf("migration 001: %w", err)
	}

	// Migration 2: per-habit display order inside a folder
	if err := db.migration002AddHabitPosition(); err != nil {
		return fmt.Errorf("migration 002: %w", err)
	}

	return nil
}

func (db *DB) hasColumn(table, column string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&n)
	return n > 0, err
}

// migration001AddCompletionNote adds a free-form note to completions
func (db *DB) migration001AddCompletionNote() error {
	has, err := db.hasColumn("completions", "note")
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	_, err = db.conn.Exec(`ALTER TABLE completions ADD COLUMN note TEXT NOT NULL DEFAULT '';`)
	if err != nil {
		return fmt.Errorf("add note column: %w", err)
	}
	return nil
}

// migration002AddHabitPosition adds an ordering column and seeds it by
// creation order within each folder
func (db *DB) migration002AddHabitPosition() error {
	has, err := db.hasColumn("habits", "position")
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	_, err = db.conn.Exec(`ALTER TABLE habits ADD COLUMN position INTEGER NOT NULL DEFAULT 0;`)
	if err != nil {
		return fmt.Errorf("add position column: %w", err)
	}

	_, err = db.conn.Exec(`
		UPDATE habits SET position = (
			SELECT COUNT(*) FROM habits h2
			WHERE h2.folder = habits.folder AND h2.created_at < habits.created_at
		);
	`)
	if err != nil {
		return fmt.Errorf("seed positions: %w", err)
	}

	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_habits_position ON habits(folder, position);`)
	return err
}
