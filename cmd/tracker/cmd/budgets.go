package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/finance-tracker/internal/handlers"
)

var (
	copyMonth int
	copyYear  int
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Budget maintenance",
}

var budgetsCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy last month's budgets into the given month",
	Long: `Copy creates each budget of the previous month in the target month unless
the target month already has a budget with that name. Running it twice
creates nothing the second time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var year *int
		if cmd.Flags().Changed("year") {
			year = &copyYear
		}
		return withDeps(cmd, func(ctx context.Context, deps *handlers.Deps) error {
			result, err := deps.BudgetSvc.CopyFromPrevious(ctx, copyMonth, year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		})
	},
}

func init() {
	budgetsCopyCmd.Flags().IntVar(&copyMonth, "month", 0, "destination month, may be out of range (required)")
	budgetsCopyCmd.Flags().IntVar(&copyYear, "year", 0, "destination year (default current year)")
	budgetsCopyCmd.MarkFlagRequired("month")

	budgetsCmd.AddCommand(budgetsCopyCmd)
}
