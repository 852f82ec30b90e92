package cli

import (
	"github.com/spf13/cobra"

	"orderbook-alerts/internal/version"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll configured order books and dispatch alerts until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp()
		a.Logger.Info().Str("version", version.String()).Msg("orderbook-alerts starting")
		return a.Run(cmd.Context())
	},
}
