package cli

import (
	"github.com/spf13/cobra"

	"orderbook-alerts/internal/app"
)

var (
	depthPair    string
	depthPNGPath string
)

var depthCmd = &cobra.Command{
	Use:   "depth",
	Short: "Render a pair's cumulative order book depth as a PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Depth(cmd.Context(), app.DepthOptions{
			Pair:    depthPair,
			PNGPath: depthPNGPath,
		})
	},
}

func init() {
	depthCmd.Flags().StringVar(&depthPair, "pair", "", "Configured pair name (defaults to the first pair)")
	depthCmd.Flags().StringVar(&depthPNGPath, "png", "", "Path to write PNG chart")
}
