package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abatilo/clarity/internal/config"
)

// configCmd implements 'clarity config' command group.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(
		configInitCmd(),
		configPathCmd(),
	)

	return cmd
}

// configInitCmd implements 'clarity config init'.
func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Run: func(_ *cobra.Command, _ []string) {
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				printError(ConfigExistsError{Path: path})
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				printError(err)
			}
			if err := config.Save(config.DefaultConfig(), path); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Wrote %s", path)))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

// configPathCmd implements 'clarity config path'.
func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(formatter.FormatMessage(config.Path()))
		},
	}
}
