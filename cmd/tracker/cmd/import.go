package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/finance-tracker/internal/handlers"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a delimited bank export",
	Long: `Import reads a delimited file using the profile named by IMPORTPROFILE,
or the default profile with the columns date, description, amount, account
and an optional budget. A malformed date or amount rejects the whole file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()

		return withDeps(cmd, func(ctx context.Context, deps *handlers.Deps) error {
			result, err := deps.ImportSvc.ImportFromDelimitedFile(ctx, f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		})
	},
}
