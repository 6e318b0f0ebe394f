package db

func (db *DB) initSchema() error {
	schema := `
	-- Habits table
	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		folder TEXT NOT NULL DEFAULT 'Inbox',
		description TEXT NOT NULL DEFAULT '',
		target_minutes INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		archived_at TEXT
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_habits_active_name
		ON habits(name COLLATE NOCASE) WHERE archived_at IS NULL;
	CREATE INDEX IF NOT EXISTS idx_habits_folder ON habits(folder);

	-- One row per habit per day it was done
	CREATE TABLE IF NOT EXISTS completions (
		habit_id TEXT NOT NULL,
		day TEXT NOT NULL,
		source TEXT NOT NULL CHECK(source IN ('manual', 'timer')),
		created_at TEXT NOT NULL,
		PRIMARY KEY (habit_id, day),
		FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_completions_day ON completions(day);

	-- Finished timer sessions (kept after the habit is deleted)
	CREATE TABLE IF NOT EXISTS focus_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		habit_id TEXT NOT NULL,
		habit_name TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		planned_seconds INTEGER NOT NULL,
		elapsed_seconds INTEGER NOT NULL,
		outcome TEXT NOT NULL CHECK(outcome IN ('completed', 'stopped')),
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_focus_logs_habit ON focus_logs(habit_id);
	CREATE INDEX IF NOT EXISTS idx_focus_logs_ended ON focus_logs(ended_at);

	-- FTS5 over habit names and descriptions
	CREATE VIRTUAL TABLE IF NOT EXISTS habits_fts USING fts5(
		name,
		description,
		content=habits,
		tokenize='porter unicode61'
	);

	-- Triggers to keep FTS in sync
	CREATE TRIGGER IF NOT EXISTS habits_ai AFTER INSERT ON habits BEGIN
		INSERT INTO habits_fts(rowid, name, description) VALUES (new.rowid, new.name, new.description);
	END;

	CREATE TRIGGER IF NOT EXISTS habits_ad AFTER DELETE ON habits BEGIN
		INSERT INTO habits_fts(habits_fts, rowid, name, description) VALUES ('delete', old.rowid, old.name, old.description);
	END;

	CREATE TRIGGER IF NOT EXISTS habits_au AFTER UPDATE ON habits BEGIN
		INSERT INTO habits_fts(habits_fts, rowid, name, description) VALUES ('delete', old.rowid, old.name, old.description);
		INSERT INTO habits_fts(rowid, name, description) VALUES (new.rowid, new.name, new.description);
	END;
	`

	_, err := db.conn.Exec(schema)
	return err
}
