package cli

import (
	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Print the tracked wallet public key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Wallet(cmd.OutOrStdout())
	},
}
