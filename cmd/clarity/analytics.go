package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abatilo/clarity/internal/dashboard"
	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/task"
)

// loadCmd implements 'clarity load'.
func loadCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Score the cognitive load of a day",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			day, err := parseDay(date, app.Now())
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatLoad(app.CognitiveLoad(day)))
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to score as YYYY-MM-DD (default today)")
	return cmd
}

// realismCmd implements 'clarity realism'.
func realismCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "realism",
		Short: "Score whether a day's plan fits the working day",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			day, err := parseDay(date, app.Now())
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatRealism(app.Realism(day)))
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to score as YYYY-MM-DD (default today)")
	return cmd
}

// fatigueCmd implements 'clarity fatigue'.
func fatigueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fatigue",
		Short: "Show decision fatigue per day",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()
			printOutput(formatter.FormatFatigue(app.Fatigue()))
		},
	}
}

// interruptionsCmd implements 'clarity interruptions'.
func interruptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interruptions",
		Short: "Estimate what an interruption costs",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()
			printOutput(formatter.FormatInterruptions(app.Interruptions()))
		},
	}
}

// rhythmCmd implements 'clarity rhythm'.
func rhythmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rhythm",
		Short: "Show focus and drift by hour of day",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()
			printOutput(formatter.FormatRhythm(app.Rhythm()))
		},
	}
}

// trainCmd implements 'clarity train'.
func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the duration model on completed tasks",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			result, err := app.Train(cmd.Context())
			var insufficient clarityerrors.InsufficientDataError
			if err != nil && !errors.As(err, &insufficient) {
				printError(err)
			}
			printOutput(formatter.FormatTrainResult(result))
		},
	}
}

// predictCmd implements 'clarity predict'.
func predictCmd() *cobra.Command {
	var (
		estimate   float64
		complexity float64
		scheduled  string
	)
	cmd := &cobra.Command{
		Use:   "predict <type>",
		Short: "Predict how long a task will really take",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			t := task.Task{
				ID:               "prediction",
				Type:             args[0],
				EstimatedMinutes: estimate,
				ComplexityScore:  complexity,
				ScheduledAt:      app.Now(),
				FocusLevel:       task.DefaultFocusLevel,
			}
			if scheduled != "" {
				if t.ScheduledAt, err = parseWhen(scheduled, app.Now()); err != nil {
					printError(err)
				}
			}
			if err = t.Validate(); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatPrediction(app.Predict(t)))
		},
	}
	cmd.Flags().Float64VarP(&estimate, "estimate", "e", 0, "Estimated minutes (required)")
	cmd.Flags().Float64VarP(&complexity, "complexity", "c", 3, "Complexity from 1 to 5")
	cmd.Flags().StringVarP(&scheduled, "at", "a", "", "Scheduled time (default now)")
	_ = cmd.MarkFlagRequired("estimate")
	return cmd
}

// prioritizeCmd implements 'clarity prioritize'.
func prioritizeCmd() *cobra.Command {
	var req dashboard.PlanRequest
	cmd := &cobra.Command{
		Use:   "prioritize",
		Short: "Rank pending tasks for your energy and suggest a schedule",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			plan, err := app.Plan(cmd.Context(), req)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatPlan(plan))
		},
	}
	cmd.Flags().IntVar(&req.Energy, "energy", 0, "Energy from 1 to 5 (default from --mood or config)")
	cmd.Flags().StringVar(&req.Mood, "mood", "", "How you feel, in your own words")
	cmd.Flags().StringVar(&req.Context, "context", "", "What kind of day it is, for strategic scoring")
	cmd.Flags().StringVar(&req.Goals, "goals", "", "Current goals, for strategic scoring")
	cmd.Flags().BoolVar(&req.Enhance, "enhance", false, "Blend in strategic value from the text-generation service")
	cmd.Flags().Float64Var(&req.AvailableHours, "hours", 0, "Hours available for the schedule (default from config)")
	cmd.Flags().BoolVar(&req.Explain, "explain", false, "Explain the ranking")
	return cmd
}

// moodCmd implements 'clarity mood'.
func moodCmd() *cobra.Command {
	var score int
	cmd := &cobra.Command{
		Use:   "mood [description...]",
		Short: "Match pending tasks to your mood",
		Run: func(cmd *cobra.Command, args []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			report, err := app.Mood(strings.Join(args, " "), score)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMood(report))
		},
	}
	cmd.Flags().IntVarP(&score, "score", "s", 0, "Mood from 1 to 5 instead of a description")
	return cmd
}

// dashboardCmd implements 'clarity dashboard'.
func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show every metric at once",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()
			printOutput(formatter.FormatSnapshot(app.Snapshot(cmd.Context())))
		},
	}
}
