package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/clarity/internal/clog"
	"github.com/abatilo/clarity/internal/config"
	"github.com/abatilo/clarity/internal/dashboard"
	"github.com/abatilo/clarity/internal/lease"
	"github.com/abatilo/clarity/internal/output"
	"github.com/abatilo/clarity/internal/task"
)

//nolint:gochecknoglobals // CLI flags, config and formatter are package-level by design
var (
	jsonOutput bool
	formatter  output.Formatter
	cfg        config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clarity",
		Short: "Personal productivity analytics",
		Long: "clarity - Personal productivity analytics: cognitive load, schedule realism, " +
			"time drift and energy-aware prioritization over your task history.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if jsonOutput {
				formatter = output.NewJSONFormatter()
			} else {
				formatter = output.NewHumanFormatter()
			}

			var err error
			cfg, err = config.Load()
			if err != nil {
				printError(err)
			}
			clog.Setup(cfg.SlogLevel(), cfg.Logging.Format, os.Stderr)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		addCmd(),
		completeCmd(),
		listCmd(),
		loadCmd(),
		realismCmd(),
		fatigueCmd(),
		interruptionsCmd(),
		rhythmCmd(),
		trainCmd(),
		predictCmd(),
		prioritizeCmd(),
		moodCmd(),
		dashboardCmd(),
		exportCmd(),
		importCmd(),
		sampleCmd(),
		clearCmd(),
		serveCmd(),
		configCmd(),
	)

	if err := rootCmd.ExecuteContext(clog.ContextWithSlog(context.Background())); err != nil {
		os.Exit(1)
	}
}

func getApp(ctx context.Context) (*dashboard.App, error) {
	return dashboard.Open(ctx, cfg)
}

// getWritableApp opens the task history for a command that changes it.
func getWritableApp(ctx context.Context) (*dashboard.App, error) {
	warnIfServed(ctx)
	return getApp(ctx)
}

// warnIfServed warns when a running server owns the data directory, since it
// will overwrite changes made underneath it.
func warnIfServed(ctx context.Context) {
	held, err := lease.Held(cfg.Data.Dir)
	if err != nil {
		slog.DebugContext(ctx, "reading server lease", "error", err)
		return
	}
	if held != nil {
		slog.WarnContext(ctx, "a clarity server is serving this data; its next save will overwrite this change",
			"owner", held.Owner, "addr", held.Addr)
	}
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

// parseWhen reads a time flag as RFC 3339, "YYYY-MM-DD HH:MM" or "HH:MM" today.
func parseWhen(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", s, time.Local); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
	}
	return time.Time{}, InvalidTimeError{Value: s}
}

// parseDay reads a YYYY-MM-DD flag, defaulting to today.
func parseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, InvalidTimeError{Value: s}
	}
	return d, nil
}

// addCmd implements 'clarity add'.
func addCmd() *cobra.Command {
	var (
		title         string
		estimate      float64
		complexity    float64
		scheduled     string
		interruptions int
		switches      int
	)
	cmd := &cobra.Command{
		Use:   "add <type>",
		Short: "Add a planned task",
		Long: "Add a planned task. Known types are coding, meeting, admin, deep_work and " +
			"communication; any other label is accepted.",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app, err := getWritableApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			t := task.Task{
				Title:              title,
				Type:               args[0],
				EstimatedMinutes:   estimate,
				ComplexityScore:    complexity,
				InterruptionCount:  interruptions,
				ContextSwitchCount: switches,
			}
			if scheduled != "" {
				if t.ScheduledAt, err = parseWhen(scheduled, app.Now()); err != nil {
					printError(err)
				}
			}

			added, err := app.AddTask(cmd.Context(), t)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(added))
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Task title")
	cmd.Flags().Float64VarP(&estimate, "estimate", "e", 0, "Estimated minutes (required)")
	cmd.Flags().Float64VarP(&complexity, "complexity", "c", 3, "Complexity from 1 to 5")
	cmd.Flags().StringVarP(&scheduled, "at", "a", "", "Scheduled time (RFC 3339, 'YYYY-MM-DD HH:MM' or 'HH:MM'; default now)")
	cmd.Flags().IntVar(&interruptions, "interruptions", 0, "Expected interruptions")
	cmd.Flags().IntVar(&switches, "switches", 0, "Expected context switches")
	_ = cmd.MarkFlagRequired("estimate")
	return cmd
}

// completeCmd implements 'clarity complete'.
func completeCmd() *cobra.Command {
	var (
		focus         int
		interruptions int
		switches      int
	)
	cmd := &cobra.Command{
		Use:   "complete <id> <actual-minutes>",
		Short: "Record how a task went",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(cmd *cobra.Command, args []string) {
			var actual float64
			if _, err := fmt.Sscanf(args[1], "%g", &actual); err != nil {
				printError(InvalidNumberError{Value: args[1]})
			}

			app, err := getWritableApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			t, err := app.CompleteTask(cmd.Context(), args[0], task.Completion{
				ActualMinutes:   actual,
				FocusLevel:      focus,
				Interruptions:   interruptions,
				ContextSwitches: switches,
			})
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
	cmd.Flags().IntVarP(&focus, "focus", "f", task.DefaultFocusLevel, "Focus level from 1 to 5")
	cmd.Flags().IntVar(&interruptions, "interruptions", 0, "Interruptions while working")
	cmd.Flags().IntVar(&switches, "switches", 0, "Context switches while working")
	return cmd
}

// listCmd implements 'clarity list'.
func listCmd() *cobra.Command {
	var showCompleted, showIncomplete, showToday bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			var name string
			switch {
			case showCompleted:
				name = task.FilterCompleted
			case showIncomplete:
				name = task.FilterIncomplete
			case showToday:
				name = task.FilterToday
			}
			tasks, err := app.Tasks(name)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTaskList(tasks))
		},
	}
	cmd.Flags().BoolVar(&showCompleted, "completed", false, "Show only completed tasks")
	cmd.Flags().BoolVar(&showIncomplete, "incomplete", false, "Show only incomplete tasks")
	cmd.Flags().BoolVar(&showToday, "today", false, "Show only tasks scheduled today")
	cmd.MarkFlagsMutuallyExclusive("completed", "incomplete", "today")
	return cmd
}
