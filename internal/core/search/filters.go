package search

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DoneFilter restricts results by whether a habit is done on the filter day
type DoneFilter int

const (
	DoneAny DoneFilter = iota
	DoneYes
	DoneNo
)

// Filters represents parsed filters from a search query
type Filters struct {
	Query           string    // Free text matched against name and description
	Folder          string    // Filter by folder (case-insensitive)
	After           time.Time // Only habits with a completion on or after this day
	Before          time.Time // Only habits with a completion on or before this day
	HasAfter        bool
	HasBefore       bool
	Done            DoneFilter
	Day             time.Time // Day the done: filter refers to
	IncludeArchived bool
}

// Empty reports whether the filters match every active habit
func (f Filters) Empty() bool {
	return f.Query == "" && f.Folder == "" && !f.HasAfter && !f.HasBefore &&
		f.Done == DoneAny && !f.IncludeArchived
}

// ParseQuery extracts filters from a search query string
// Supports:
//   - folder:<name> - filter by folder
//   - after:yesterday, before:2024-11-01 - habits done inside a date range
//   - done:today, done:yes, done:no - done (or not) today
//   - archived:yes - include archived habits
func ParseQuery(query string) Filters {
	return ParseQueryAt(query, time.Now())
}

// ParseQueryAt is ParseQuery with relative dates resolved against now
func ParseQueryAt(query string, now time.Time) Filters {
	filters := Filters{Day: now}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	var queryParts []string
	for _, token := range strings.Fields(query) {
		key, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			queryParts = append(queryParts, token)
			continue
		}

		switch strings.ToLower(key) {
		case "folder":
			filters.Folder = value
		case "after":
			if parsed := parseDate(w, value, now); parsed != nil {
				filters.After = *parsed
				filters.HasAfter = true
			}
		case "before":
			if parsed := parseDate(w, value, now); parsed != nil {
				filters.Before = *parsed
				filters.HasBefore = true
			}
		case "done":
			switch strings.ToLower(value) {
			case "today", "yes", "true":
				filters.Done = DoneYes
			case "no", "false":
				filters.Done = DoneNo
			}
		case "archived":
			switch strings.ToLower(value) {
			case "yes", "true":
				filters.IncludeArchived = true
			}
		default:
			queryParts = append(queryParts, token)
		}
	}

	filters.Query = strings.Join(queryParts, " ")
	return filters
}

// parseDate tries fixed layouts first, then natural language. Hyphens in
// phrases like last-week stand in for spaces.
func parseDate(w *when.Parser, dateStr string, now time.Time) *time.Time {
	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
		"01/02/2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, now.Location()); err == nil {
			return &t
		}
	}

	phrase := strings.ReplaceAll(dateStr, "-", " ")
	result, err := w.Parse(phrase, now)
	if err == nil && result != nil {
		return &result.Time
	}
	return nil
}
