package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/finance-tracker/internal/handlers"
)

var (
	spendMonth   int
	spendYear    int
	spendGroupBy string
)

var spendCmd = &cobra.Command{
	Use:   "spend",
	Short: "Summarise a month's spending",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var month, year *int
		if cmd.Flags().Changed("month") {
			month = &spendMonth
		}
		if cmd.Flags().Changed("year") {
			year = &spendYear
		}
		return withDeps(cmd, func(ctx context.Context, deps *handlers.Deps) error {
			summary, err := deps.AnalyticsSvc.SpendSummary(ctx, month, year, spendGroupBy)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		})
	},
}

func init() {
	spendCmd.Flags().IntVar(&spendMonth, "month", 0, "month, may be out of range (default current month)")
	spendCmd.Flags().IntVar(&spendYear, "year", 0, "year (default current year)")
	spendCmd.Flags().StringVar(&spendGroupBy, "group-by", "account", "breakdown key: account, merchant or day")
}
