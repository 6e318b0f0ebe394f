package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/neilberkman/habitrider/internal/core/timer"
	"github.com/neilberkman/habitrider/internal/interface/tui"
)

var (
	focusMinutes int
	focusBreak   string
	cycleAuto    bool
)

var focusCmd = &cobra.Command{
	Use:   "focus <habit>",
	Short: "Run a focus timer for a habit",
	Long: `Run a countdown in the terminal. When it finishes the habit is marked
done for today.

Length defaults to the habit's target, then work_minutes from the config.

Examples:
  habitrider focus Read
  habitrider focus "Deep work" --minutes 50
  habitrider focus Read --break short`,
	Args: cobra.ExactArgs(1),
	RunE: runFocus,
}

var cycleCmd = &cobra.Command{
	Use:   "cycle <habit>",
	Short: "Run a pomodoro cycle for a habit",
	Long: `Alternate work and break phases. Each finished work phase marks the
habit done; every long_break_every work phases earn a long break. Press n to
move on when a phase ends.`,
	Args: cobra.ExactArgs(1),
	RunE: runCycle,
}

func init() {
	rootCmd.AddCommand(focusCmd, cycleCmd)
	focusCmd.Flags().IntVarP(&focusMinutes, "minutes", "m", 0, "Session length in minutes")
	focusCmd.Flags().StringVarP(&focusBreak, "break", "b", "", "Run a break instead: short or long")
	cycleCmd.Flags().IntVarP(&focusMinutes, "minutes", "m", 0, "Work phase length in minutes")
	cycleCmd.Flags().BoolVar(&cycleAuto, "auto", false, "Start the next phase as soon as it is confirmed")
}

func runFocus(cmd *cobra.Command, args []string) error {
	opts, closeAll, err := focusOptions(args[0])
	if err != nil {
		return err
	}
	defer closeAll()

	switch strings.ToLower(focusBreak) {
	case "":
	case "short":
		opts.Break = timer.BreakShort
		opts.Minutes = pick(focusMinutes, cfg.ShortBreakMinutes)
	case "long":
		opts.Break = timer.BreakLong
		opts.Minutes = pick(focusMinutes, cfg.LongBreakMinutes)
	default:
		return fmt.Errorf("unknown break %q (want short or long)", focusBreak)
	}
	return runFocusProgram(opts)
}

func runCycle(cmd *cobra.Command, args []string) error {
	opts, closeAll, err := focusOptions(args[0])
	if err != nil {
		return err
	}
	defer closeAll()

	cycle := cfg.Cycle()
	cycle.WorkMinutes = opts.Minutes
	if cmd.Flags().Changed("auto") {
		cycle.AutoAdvance = cycleAuto
	}
	opts.Cycle = &cycle
	return runFocusProgram(opts)
}

func focusOptions(ref string) (tui.FocusOptions, func(), error) {
	database, err := openDB()
	if err != nil {
		return tui.FocusOptions{}, nil, err
	}
	closeDB := func() { _ = database.Close() }

	h, err := database.FindHabit(ref)
	if err != nil {
		closeDB()
		return tui.FocusOptions{}, nil, err
	}

	timerLogger, closeLog, err := fileLogger()
	if err != nil {
		closeDB()
		return tui.FocusOptions{}, nil, err
	}
	closeAll := func() {
		_ = closeLog()
		closeDB()
	}

	return tui.FocusOptions{
		DB:       database,
		Habit:    *h,
		Minutes:  pick(focusMinutes, pick(h.TargetMinutes, cfg.WorkMinutes)),
		Messages: cfg.Messages(),
		Logger:   timerLogger,
	}, closeAll, nil
}

func runFocusProgram(opts tui.FocusOptions) error {
	if opts.Minutes <= 0 {
		return fmt.Errorf("session length must be positive")
	}

	model := tui.NewFocus(opts)
	defer model.Close()

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("error running timer: %w", err)
	}
	if m, ok := final.(tui.FocusModel); ok && m.Outcome != "" {
		ui.Info("%s", m.Outcome)
	}
	return nil
}

// pick returns v when positive, else fallback
func pick(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
