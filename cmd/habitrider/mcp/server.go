package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/neilberkman/habitrider/internal/core/db"
	"github.com/neilberkman/habitrider/internal/core/models"
	"github.com/neilberkman/habitrider/internal/core/search"
)

// ListHabitsArgs defines arguments for the list_habits tool
type ListHabitsArgs struct {
	Folder          string `json:"folder,omitempty" jsonschema:"description=Only habits in this folder"`
	IncludeArchived bool   `json:"include_archived,omitempty" jsonschema:"description=Include archived habits"`
}

// SearchHabitsArgs defines arguments for the search_habits tool
type SearchHabitsArgs struct {
	Query string `json:"query" jsonschema:"description=Search text with optional folder:/after:/before:/done:/archived: filters,required"`
}

// MarkDoneArgs defines arguments for the mark_done tool
type MarkDoneArgs struct {
	Habit string `json:"habit" jsonschema:"description=Habit name or ID,required"`
	Day   string `json:"day,omitempty" jsonschema:"description=Day to mark (YYYY-MM-DD or natural language; default today)"`
	Note  string `json:"note,omitempty" jsonschema:"description=Optional note"`
}

// HabitStatsArgs defines arguments for the habit_stats tool
type HabitStatsArgs struct {
	Habit string `json:"habit,omitempty" jsonschema:"description=Habit name or ID; omit for totals"`
}

// RecentFocusArgs defines arguments for the recent_focus tool
type RecentFocusArgs struct {
	Habit string `json:"habit,omitempty" jsonschema:"description=Habit name or ID"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Max sessions to return (default: 20)"`
}

// HabitSummary represents a habit in list and search results
type HabitSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Folder        string `json:"folder"`
	Description   string `json:"description,omitempty"`
	TargetMinutes int    `json:"target_minutes,omitempty"`
	DoneToday     bool   `json:"done_today"`
	Archived      bool   `json:"archived,omitempty"`
}

// HabitStats is the habit_stats result for one habit
type HabitStats struct {
	Habit         HabitSummary `json:"habit"`
	CurrentStreak int          `json:"current_streak"`
	LongestStreak int          `json:"longest_streak"`
	TimesDone     int          `json:"times_done"`
	FocusMinutes  int          `json:"focus_minutes"`
}

// FocusEntry represents a logged timer session
type FocusEntry struct {
	Habit          string `json:"habit"`
	Kind           string `json:"kind"`
	Outcome        string `json:"outcome"`
	PlannedSeconds int    `json:"planned_seconds"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	StartedAt      string `json:"started_at"`
	EndedAt        string `json:"ended_at"`
}

// StartServer starts the MCP server
func StartServer(dbPath string) error {
	// Open database
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	return server.ServeStdio(NewServer(database))
}

// NewServer registers the habit tools on a new MCP server
func NewServer(database *db.DB) *server.MCPServer {
	s := server.NewMCPServer(
		"habitrider",
		"1.0.0",
	)

	listTool := mcp.NewTool("list_habits",
		mcp.WithDescription("List tracked habits with whether each is done today"),
		mcp.WithString("folder",
			mcp.Description("Only habits in this folder")),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include archived habits")),
	)
	s.AddTool(listTool, makeListHabitsHandler(database))

	searchTool := mcp.NewTool("search_habits",
		mcp.WithDescription("Full-text search over habit names and descriptions. Supports filters: folder:<name>, after:<date>, before:<date>, done:today, done:no, archived:yes"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text and filters, e.g. 'read folder:learning done:no'")),
	)
	s.AddTool(searchTool, makeSearchHabitsHandler(database))

	doneTool := mcp.NewTool("mark_done",
		mcp.WithDescription("Mark a habit done for today or another day"),
		mcp.WithString("habit",
			mcp.Required(),
			mcp.Description("Habit name or ID")),
		mcp.WithString("day",
			mcp.Description("Day to mark, e.g. '2025-01-08' or 'yesterday' (default: today)")),
		mcp.WithString("note",
			mcp.Description("Optional note to attach")),
	)
	s.AddTool(doneTool, makeMarkDoneHandler(database))

	statsTool := mcp.NewTool("habit_stats",
		mcp.WithDescription("Streaks and focus time for one habit, or totals for all habits"),
		mcp.WithString("habit",
			mcp.Description("Habit name or ID (omit for totals)")),
	)
	s.AddTool(statsTool, makeHabitStatsHandler(database))

	focusTool := mcp.NewTool("recent_focus",
		mcp.WithDescription("Recent focus timer sessions, newest first"),
		mcp.WithString("habit",
			mcp.Description("Habit name or ID")),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default: 20)")),
	)
	s.AddTool(focusTool, makeRecentFocusHandler(database))

	return s
}

func decodeArgs(request mcp.CallToolRequest, v interface{}) error {
	argsBytes, _ := json.Marshal(request.Params.Arguments)
	return json.Unmarshal(argsBytes, v)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func summarize(habits []models.Habit, done map[string]bool) []HabitSummary {
	out := make([]HabitSummary, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitSummary{
			ID:            h.ID,
			Name:          h.Name,
			Folder:        h.Folder,
			Description:   h.Description,
			TargetMinutes: h.TargetMinutes,
			DoneToday:     done[h.ID],
			Archived:      h.Archived(),
		})
	}
	return out
}

func makeListHabitsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListHabitsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		habits, err := database.ListHabits(db.ListOptions{Folder: args.Folder, IncludeArchived: args.IncludeArchived})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		done, err := database.DoneOn(time.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		return jsonResult(map[string]interface{}{
			"habits": summarize(habits, done),
		})
	}
}

func makeSearchHabitsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SearchHabitsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		habits, err := search.Habits(database, search.ParseQuery(args.Query))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		done, err := database.DoneOn(time.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		return jsonResult(map[string]interface{}{
			"habits": summarize(habits, done),
		})
	}
}

func makeMarkDoneHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args MarkDoneArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		h, err := database.FindHabit(args.Habit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("habit not found: %v", err)), nil
		}

		day := time.Now()
		if args.Day != "" {
			f := search.ParseQuery("after:" + args.Day)
			if !f.HasAfter {
				return mcp.NewToolResultError(fmt.Sprintf("could not understand day %q", args.Day)), nil
			}
			day = f.After
		}

		if err := database.MarkDone(h.ID, day, models.SourceManual, args.Note); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("mark done failed: %v", err)), nil
		}
		streak, err := database.HabitStreak(h.ID, time.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		return jsonResult(map[string]interface{}{
			"habit":          h.Name,
			"day":            models.Day(day),
			"current_streak": streak.Current,
		})
	}
}

func makeHabitStatsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args HabitStatsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		if args.Habit == "" {
			stats, err := database.GetStats()
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
			}
			return jsonResult(map[string]interface{}{
				"active_habits":     stats.ActiveHabits,
				"archived_habits":   stats.ArchivedHabits,
				"folders":           stats.Folders,
				"total_completions": stats.TotalCompletions,
				"timer_completions": stats.TimerCompletions,
				"focus_sessions":    stats.FocusSessions,
				"focus_minutes":     stats.FocusMinutes,
				"most_done_habit":   stats.MostDoneHabit,
				"most_done_count":   stats.MostDoneCount,
			})
		}

		h, err := database.FindHabit(args.Habit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("habit not found: %v", err)), nil
		}
		now := time.Now()
		streak, err := database.HabitStreak(h.ID, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		minutes, err := database.FocusMinutes(h.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		done, err := database.IsDone(h.ID, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		return jsonResult(HabitStats{
			Habit:         summarize([]models.Habit{*h}, map[string]bool{h.ID: done})[0],
			CurrentStreak: streak.Current,
			LongestStreak: streak.Longest,
			TimesDone:     streak.Total,
			FocusMinutes:  minutes,
		})
	}
}

func makeRecentFocusHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args RecentFocusArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		// Set defaults
		limit := args.Limit
		if limit == 0 {
			limit = 20
		}

		habitID := ""
		if args.Habit != "" {
			h, err := database.FindHabit(args.Habit)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("habit not found: %v", err)), nil
			}
			habitID = h.ID
		}

		logs, err := database.ListFocusLogs(habitID, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		entries := make([]FocusEntry, 0, len(logs))
		for _, l := range logs {
			entries = append(entries, FocusEntry{
				Habit:          l.HabitName,
				Kind:           l.Kind,
				Outcome:        string(l.Outcome),
				PlannedSeconds: l.PlannedSeconds,
				ElapsedSeconds: l.ElapsedSeconds,
				StartedAt:      l.StartedAt.Format(time.RFC3339),
				EndedAt:        l.EndedAt.Format(time.RFC3339),
			})
		}

		return jsonResult(map[string]interface{}{
			"sessions": entries,
		})
	}
}
