package cmd

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/dvilelaf/zerppay/internal/app"
)

func newSendCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "send <sender> <secret> <amount> <destination>",
		Short: "Send a single XRP payment",
		Long: `Sends one payment and prints its transaction hash. Fail-fast: any error
during preparation, signing or submission aborts with a non-zero exit.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, secret, destination := args[0], args[1], args[3]
			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			if !skipConfirm {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Send %s XRP from %s to %s", args[2], sender, destination),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					return fmt.Errorf("aborted")
				}
			}

			return app.Send(cmd.Context(), sender, secret, amount, destination)
		},
	}
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
