package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// exportCmd implements 'clarity export'.
func exportCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every task as JSON",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := getApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			data, err := app.Export()
			if err != nil {
				printError(err)
			}
			if outFile == "" {
				printOutput(string(data) + "\n")
				return
			}
			//nolint:gosec // G306: exports are the user's own data
			if err = os.WriteFile(outFile, data, 0o644); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Exported %d task(s) to %s", app.Store().Len(), outFile)))
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// importCmd implements 'clarity import'.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from an export ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				printError(err)
			}

			app, err := getWritableApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			n, err := app.Import(cmd.Context(), data)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Imported %d task(s)", n)))
		},
	}
}

// sampleCmd implements 'clarity sample'.
func sampleCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a week of sample history",
		Run: func(cmd *cobra.Command, _ []string) {
			if count < 0 {
				printError(InvalidNumberError{Value: fmt.Sprint(count)})
			}

			app, err := getWritableApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			tasks, err := app.GenerateSample(cmd.Context(), count)
			if err != nil {
				printError(err)
			}
			if jsonOutput {
				printOutput(formatter.FormatTaskList(tasks))
				return
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Generated %d sample task(s)", len(tasks))))
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of tasks (default 10)")
	return cmd
}

// clearCmd implements 'clarity clear'.
func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every task",
		Run: func(cmd *cobra.Command, _ []string) {
			if !yes {
				printError(ConfirmationRequiredError{Action: "clear"})
			}

			app, err := getWritableApp(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer app.Close()

			n, err := app.Clear(cmd.Context())
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed %d task(s)", n)))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm removing every task")
	return cmd
}
