package db

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestNew(t *testing.T) {
	// Use temp file for test DB
	tmpfile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()
	_ = tmpfile.Close()

	database, err := New(tmpfile.Name())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = database.Close() }()

	// Verify schema initialized
	var count int
	err = database.conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema: %v", err)
	}

	// Should have: habits, completions, focus_logs, habits_fts (+ shadow tables)
	if count < 4 {
		t.Errorf("Expected at least 4 tables, got %d", count)
	}
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "habits.db")

	database, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = database.Close() }()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestNew_WALMode(t *testing.T) {
	database := newTestDB(t)

	// Verify WAL mode is enabled
	var journalMode string
	err := database.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}

	if journalMode != "wal" {
		t.Errorf("Expected WAL mode, got %s", journalMode)
	}
}

func TestNew_ForeignKeys(t *testing.T) {
	database := newTestDB(t)

	// Verify foreign keys are enabled
	var fkEnabled int
	err := database.conn.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled)
	if err != nil {
		t.Fatalf("Failed to query foreign keys: %v", err)
	}

	if fkEnabled != 1 {
		t.Errorf("Expected foreign keys enabled (1), got %d", fkEnabled)
	}
}

func TestMigrations(t *testing.T) {
	database := newTestDB(t)

	for _, tc := range []struct{ table, column string }{
		{"completions", "note"},
		{"habits", "position"},
	} {
		has, err := database.hasColumn(tc.table, tc.column)
		if err != nil {
			t.Fatalf("hasColumn(%s, %s) error = %v", tc.table, tc.column, err)
		}
		if !has {
			t.Errorf("expected column %s.%s after migrations", tc.table, tc.column)
		}
	}

	// Re-running migrations must be a no-op
	if err := database.runMigrations(); err != nil {
		t.Errorf("second runMigrations() error = %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.db")

	database, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := database.Exec(`
		INSERT INTO habits (id, name, created_at) VALUES ('01TEST', 'Read', '2024-01-01T00:00:00Z')
	`); err != nil {
		t.Fatal(err)
	}
	_ = database.Close()

	database, err = New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = database.Close() }()

	h, err := database.GetHabit("01TEST")
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if h.Name != "Read" || h.Folder != "Inbox" {
		t.Errorf("unexpected habit after reopen: %+v", h)
	}
}
