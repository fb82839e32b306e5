package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show realized P&L metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		m, err := client.GetDashboardMetrics(cmd.Context(), cfg.API.Token)
		if err != nil {
			return fmt.Errorf("dashboard metrics: %w", err)
		}
		renderDashboard(cmd.OutOrStdout(), m)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
