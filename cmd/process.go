package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dvilelaf/zerppay/internal/app"
)

func newProcessCmd() *cobra.Command {
	var production bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Submit all pending payments from the database",
		Long: `Reads payment rows that have no transaction id yet, submits each to the
ledger on one shared session, and writes the transaction id and status back
per row. Individual failures are recorded, not fatal: the process exits
non-zero only on setup or connection errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Process(cmd.Context(), production)
		},
	}
	cmd.Flags().BoolVar(&production, "production", false, "use the production network configuration instead of the test one")
	return cmd
}
