package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dvilelaf/zerppay/internal/app"
)

func newFloodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flood",
		Short: "Fire randomized test payments at the test network",
		Long: `Generates randomized payments from the bundled pool of test accounts and
submits them against the configured destination. Nothing is persisted;
results are printed per request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Flood(cmd.Context())
		},
	}
}
