// Package cmd provides the tracker subcommands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/finance-tracker/internal/bootstrap"
	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/handlers"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

var (
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Personal finance tracker",
	Long: `tracker runs the finance tracker's batch jobs against the configured store.

Example:
  tracker sync
  tracker import june.csv
  tracker budgets copy --month 7 --year 2025
  tracker period --month 13
  tracker spend --group-by merchant`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file (default is .env if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(linkTokenCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(budgetsCmd)
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(spendCmd)
}

// withDeps bootstraps the backend, runs fn with a logger-carrying context and
// closes every client afterwards.
func withDeps(cmd *cobra.Command, fn func(ctx context.Context, deps *handlers.Deps) error) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	bs, err := bootstrap.Run(cfg, logger.NewConsoleHandler)
	if err != nil {
		bs.Close()
		return err
	}
	defer bs.Close()

	deps, err := bootstrap.NewDeps(bs, cfg)
	if err != nil {
		return err
	}

	ctx := logger.ToContext(cmd.Context(), bs.Log)
	return fn(ctx, deps)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
