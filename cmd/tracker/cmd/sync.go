package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/finance-tracker/internal/handlers"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull new transactions from every linked connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, deps *handlers.Deps) error {
			result, err := deps.AggregatorSvc.SyncFromAggregator(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		})
	},
}

var linkTokenCmd = &cobra.Command{
	Use:   "link-token",
	Short: "Create a Plaid Link token for connecting an institution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, deps *handlers.Deps) error {
			token, err := deps.AggregatorSvc.CreateLinkToken(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"linkToken": token})
		})
	},
}
