package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"quizforge/internal/app"
	"quizforge/internal/config"
	"quizforge/internal/logger"

	"github.com/spf13/cobra"
)

var (
	// container is built once per invocation by the root pre-run hook.
	container *app.Container
	logFile   *os.File
)

var rootCmd = &cobra.Command{
	Use:           "quizctl",
	Short:         "Generate, play and review AI quizzes from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			os.Setenv("QUIZFORGE_CONFIG", path)
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
			cfg.Logger.Level = "warn"
		}
		var logOut io.Writer = os.Stderr
		if path, _ := cmd.Flags().GetString("log-file"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			logFile = f
			logOut = f
		}
		if err := logger.InitializeWithWriter(cfg.Logger, logOut); err != nil {
			return err
		}
		container, err = app.Build(cmd.Context(), cfg)
		return err
	},
}

// Execute runs the command line and releases the container even when the
// command failed.
func Execute(ctx context.Context) error {
	defer func() {
		if container != nil {
			container.Close()
		}
		logger.Sync()
		if logFile != nil {
			logFile.Close()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (overrides QUIZFORGE_CONFIG)")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at the configured level instead of warn")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(weakAreasCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
