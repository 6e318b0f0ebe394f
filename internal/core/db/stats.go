package db

import (
	"database/sql"
	"time"

	"github.com/neilberkman/habitrider/internal/core/models"
)

// Stats represents database statistics
type Stats struct {
	ActiveHabits     int
	ArchivedHabits   int
	Folders          int
	TotalCompletions int
	TimerCompletions int
	FocusSessions    int
	FocusMinutes     int
	FirstCompletion  time.Time
	LastCompletion   time.Time
	MostDoneHabit    string
	MostDoneCount    int
}

// GetStats returns comprehensive database statistics
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN archived_at IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN archived_at IS NOT NULL THEN 1 ELSE 0 END), 0),
			COUNT(DISTINCT CASE WHEN archived_at IS NULL THEN folder END)
		FROM habits
	`).Scan(&stats.ActiveHabits, &stats.ArchivedHabits, &stats.Folders)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN source = 'timer' THEN 1 ELSE 0 END), 0)
		FROM completions
	`).Scan(&stats.TotalCompletions, &stats.TimerCompletions)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM focus_logs WHERE kind = 'work' AND outcome = 'completed'`).
		Scan(&stats.FocusSessions)
	if err != nil {
		return nil, err
	}

	stats.FocusMinutes, err = db.FocusMinutes("")
	if err != nil {
		return nil, err
	}

	// Date range (only if we have completions)
	if stats.TotalCompletions > 0 {
		var first, last sql.NullString
		err = db.QueryRow("SELECT MIN(day), MAX(day) FROM completions").Scan(&first, &last)
		if err != nil {
			return nil, err
		}
		if first.Valid {
			stats.FirstCompletion, _ = time.Parse(models.DayLayout, first.String)
		}
		if last.Valid {
			stats.LastCompletion, _ = time.Parse(models.DayLayout, last.String)
		}

		err = db.QueryRow(`
			SELECT h.name, COUNT(*) as cnt
			FROM completions c
			JOIN habits h ON h.id = c.habit_id
			GROUP BY c.habit_id
			ORDER BY cnt DESC, h.name
			LIMIT 1
		`).Scan(&stats.MostDoneHabit, &stats.MostDoneCount)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	}

	return stats, nil
}

// Streak summarizes consecutive completion days for a habit
type Streak struct {
	Current int // run ending today, or yesterday if today is not done yet
	Longest int
	Total   int
}

// HabitStreak computes streaks for habitID as of today
func (db *DB) HabitStreak(habitID string, today time.Time) (Streak, error) {
	rows, err := db.conn.Query(`SELECT day FROM completions WHERE habit_id = ? ORDER BY day`, habitID)
	if err != nil {
		return Streak{}, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return Streak{}, err
		}
		if d, err := time.Parse(models.DayLayout, s); err == nil {
			days = append(days, d)
		}
	}
	if err := rows.Err(); err != nil {
		return Streak{}, err
	}

	return computeStreak(days, today), nil
}

// computeStreak expects days sorted ascending, one per date
func computeStreak(days []time.Time, today time.Time) Streak {
	st := Streak{Total: len(days)}
	if len(days) == 0 {
		return st
	}

	run := 1
	st.Longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > st.Longest {
			st.Longest = run
		}
	}

	todayDay, _ := time.Parse(models.DayLayout, models.Day(today))
	last := days[len(days)-1]
	if gap := todayDay.Sub(last); gap == 0 || gap == 24*time.Hour {
		st.Current = run
	}
	return st
}
