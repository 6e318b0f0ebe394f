package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neilberkman/habitrider/internal/core/models"
)

// ErrDuplicate is returned when an active habit with the same name exists
var ErrDuplicate = errors.New("habit already exists")

// HabitColumns is the column list ScanHabit expects, in order
const HabitColumns = `id, name, folder, description, target_minutes, position, created_at, archived_at`

// RowScanner is satisfied by *sql.Row and *sql.Rows
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// ScanHabit reads one row selected with HabitColumns
func ScanHabit(row RowScanner) (*models.Habit, error) {
	var h models.Habit
	var createdAt string
	var archivedAt sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &h.Folder, &h.Description, &h.TargetMinutes,
		&h.Position, &createdAt, &archivedAt); err != nil {
		return nil, err
	}
	h.CreatedAt = parseTime(createdAt)
	h.ArchivedAt = parseNullTime(archivedAt)
	return &h, nil
}

func wrapConstraint(err error, name string) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	return err
}

// CreateHabit validates and inserts a habit, assigning its ID, creation
// time and a position at the end of its folder
func (db *DB) CreateHabit(h *models.Habit) error {
	h.Normalize()
	if err := h.Validate(); err != nil {
		return err
	}

	h.ID = newID()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	err := db.conn.QueryRow(`
		SELECT COALESCE(MAX(position) + 1, 0) FROM habits WHERE folder = ?
	`, h.Folder).Scan(&h.Position)
	if err != nil {
		return fmt.Errorf("next position: %w", err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO habits (id, name, folder, description, target_minutes, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.Name, h.Folder, h.Description, h.TargetMinutes, h.Position, formatTime(h.CreatedAt))
	if err != nil {
		return wrapConstraint(err, h.Name)
	}
	return nil
}

// GetHabit loads a habit by ID
func (db *DB) GetHabit(id string) (*models.Habit, error) {
	h, err := ScanHabit(db.conn.QueryRow(`SELECT `+HabitColumns+` FROM habits WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return h, err
}

// FindHabit resolves a user reference: exact ID, then habit name
// (case-insensitive, active habits before archived ones), then a unique ID
// prefix or suffix
func (db *DB) FindHabit(ref string) (*models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty habit reference: %w", ErrNotFound)
	}

	if h, err := db.GetHabit(ref); err == nil {
		return h, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	h, err := ScanHabit(db.conn.QueryRow(`
		SELECT `+HabitColumns+` FROM habits
		WHERE name = ? COLLATE NOCASE
		ORDER BY archived_at IS NOT NULL, archived_at DESC
		LIMIT 1
	`, ref))
	if err == nil {
		return h, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := db.conn.Query(`
		SELECT `+HabitColumns+` FROM habits WHERE id LIKE ?1 || '%' OR id LIKE '%' || ?1 LIMIT 2
	`, strings.ToUpper(ref))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*models.Habit
	for rows.Next() {
		h, err := ScanHabit(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("habit %q: %w", ref, ErrNotFound)
	default:
		return nil, fmt.Errorf("habit reference %q is ambiguous", ref)
	}
}

// ListOptions filters ListHabits
type ListOptions struct {
	Folder          string
	IncludeArchived bool
}

// ListHabits returns habits ordered by folder then position
func (db *DB) ListHabits(opts ListOptions) ([]models.Habit, error) {
	query := `SELECT ` + HabitColumns + ` FROM habits WHERE 1=1`
	var args []interface{}

	if !opts.IncludeArchived {
		query += ` AND archived_at IS NULL`
	}
	if opts.Folder != "" {
		query += ` AND folder = ? COLLATE NOCASE`
		args = append(args, opts.Folder)
	}
	query += ` ORDER BY folder COLLATE NOCASE, position, name COLLATE NOCASE`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := ScanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// UpdateHabit saves name, folder, description and target of an existing habit
func (db *DB) UpdateHabit(h *models.Habit) error {
	h.Normalize()
	if err := h.Validate(); err != nil {
		return err
	}

	res, err := db.conn.Exec(`
		UPDATE habits
		SET name = ?, folder = ?, description = ?, target_minutes = ?, position = ?
		WHERE id = ?
	`, h.Name, h.Folder, h.Description, h.TargetMinutes, h.Position, h.ID)
	if err != nil {
		return wrapConstraint(err, h.Name)
	}
	return expectOne(res, h.ID)
}

// MoveHabit puts a habit at the end of another folder
func (db *DB) MoveHabit(id, folder string) error {
	h, err := db.GetHabit(id)
	if err != nil {
		return err
	}
	h.Folder = folder
	h.Normalize()

	err = db.conn.QueryRow(`
		SELECT COALESCE(MAX(position) + 1, 0) FROM habits WHERE folder = ? AND id != ?
	`, h.Folder, id).Scan(&h.Position)
	if err != nil {
		return fmt.Errorf("next position: %w", err)
	}
	return db.UpdateHabit(h)
}

// ArchiveHabit hides a habit from the default listing
func (db *DB) ArchiveHabit(id string) error {
	res, err := db.conn.Exec(`
		UPDATE habits SET archived_at = ? WHERE id = ? AND archived_at IS NULL
	`, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

// UnarchiveHabit restores an archived habit
func (db *DB) UnarchiveHabit(id string) error {
	res, err := db.conn.Exec(`UPDATE habits SET archived_at = NULL WHERE id = ?`, id)
	if err != nil {
		return wrapConstraint(err, id)
	}
	return expectOne(res, id)
}

// DeleteHabit removes a habit and its completions. Focus logs are kept.
func (db *DB) DeleteHabit(id string) error {
	res, err := db.conn.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

// Folder is a folder name with the number of active habits in it
type Folder struct {
	Name  string
	Count int
}

// ListFolders returns folders of active habits
func (db *DB) ListFolders() ([]Folder, error) {
	rows, err := db.conn.Query(`
		SELECT folder, COUNT(*) FROM habits
		WHERE archived_at IS NULL
		GROUP BY folder
		ORDER BY folder COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.Name, &f.Count); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return nil
}
