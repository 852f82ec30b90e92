package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"orderbook-alerts/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	// version must work without a config file
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "orderbook-alerts %s\n", version.Version)
		fmt.Fprintf(out, "commit: %s\nbuilt: %s\n", version.Commit, version.BuildDate)
	},
}
