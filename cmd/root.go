package cmd

import (
	"github.com/spf13/cobra"
)

// Execute runs the zerppay command tree.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:               "zerppay",
		Short:             "XRP payment automation for the ZerpLotto draw engine",
		Long:              `Submits XRP Ledger payments: a batch processor for queued database rows, a one-off payment sender, and a test-network flood runner.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	rootCmd.AddCommand(newProcessCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newFloodCmd())

	return rootCmd.Execute()
}
