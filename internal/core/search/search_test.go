package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/models"
)

func setupSearchDB(t *testing.T) (*db.DB, map[string]string) {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	habits := []models.Habit{
		{Name: "Morning run", Folder: "Health", Description: "5k around the park"},
		{Name: "Stretch", Folder: "Health", Description: "hamstrings and back"},
		{Name: "Read", Folder: "Learning", Description: "twenty pages of a novel"},
		{Name: "Journal", Folder: "Writing", Description: "morning pages"},
	}
	ids := make(map[string]string)
	for i := range habits {
		if err := database.CreateHabit(&habits[i]); err != nil {
			t.Fatalf("CreateHabit() error = %v", err)
		}
		ids[habits[i].Name] = habits[i].ID
	}
	return database, ids
}

func names(habits []models.Habit) []string {
	var out []string
	for _, h := range habits {
		out = append(out, h.Name)
	}
	return out
}

func equalNames(got []models.Habit, want ...string) bool {
	n := names(got)
	if len(n) != len(want) {
		return false
	}
	for i := range n {
		if n[i] != want[i] {
			return false
		}
	}
	return true
}

func TestHabits(t *testing.T) {
	database, ids := setupSearchDB(t)
	day := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	if err := database.MarkDone(ids["Read"], day, models.SourceManual, ""); err != nil {
		t.Fatal(err)
	}
	if err := database.MarkDone(ids["Stretch"], day.AddDate(0, 0, -5), models.SourceManual, ""); err != nil {
		t.Fatal(err)
	}
	if err := database.ArchiveHabit(ids["Journal"]); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"everything active", "", []string{"Morning run", "Read", "Stretch"}},
		{"text in name", "run", []string{"Morning run"}},
		{"text in description prefix", "hamstr", []string{"Stretch"}},
		{"text across archived", "morning archived:yes", []string{"Journal", "Morning run"}},
		{"folder", "folder:health", []string{"Morning run", "Stretch"}},
		{"done today", "done:today", []string{"Read"}},
		{"not done today", "done:no", []string{"Morning run", "Stretch"}},
		{"date range", "after:2024-05-01 before:2024-05-07", []string{"Stretch"}},
		{"punctuation only", "-- \"", []string{"Morning run", "Read", "Stretch"}},
		{"quotes are escaped", `"novel`, []string{"Read"}},
		{"no match", "swim", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Habits(database, ParseQueryAt(tt.query, day))
			if err != nil {
				t.Fatalf("Habits() error = %v", err)
			}
			if !equalNames(got, tt.want...) {
				t.Errorf("Habits(%q) = %v, want %v", tt.query, names(got), tt.want)
			}
		})
	}
}
