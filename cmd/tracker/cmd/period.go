package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/finance-tracker/internal/period"
)

var (
	periodMonth int
	periodYear  int
)

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Resolve a month and year into a calendar period",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var month, year *int
		if cmd.Flags().Changed("month") {
			month = &periodMonth
		}
		if cmd.Flags().Changed("year") {
			year = &periodYear
		}
		return printJSON(cmd.OutOrStdout(), period.Resolve(month, year, time.Now()))
	},
}

func init() {
	periodCmd.Flags().IntVar(&periodMonth, "month", 0, "month, may be out of range (default current month)")
	periodCmd.Flags().IntVar(&periodYear, "year", 0, "year (default current year)")
}
