package cli

import (
	"github.com/spf13/cobra"

	"orderbook-alerts/internal/app"
)

var checkDryRun bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single monitoring cycle and print the alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Check(cmd.Context(), app.CheckOptions{
			DryRun: checkDryRun,
			Out:    cmd.OutOrStdout(),
		})
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkDryRun, "dry-run", false, "Print alerts without dispatching them")
}
