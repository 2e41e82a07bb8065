package cmd

import (
	"github.com/spf13/cobra"

	"corhyn.com/corhyn/internal/render"
	"corhyn.com/corhyn/pkg/constants"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show productivity statistics",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		period, _ := cmd.Flags().GetString("period")
		detailed, _ := cmd.Flags().GetBool("detailed")

		if detailed {
			report, err := a.stats.Detailed(cmd.Context(), period)
			if err != nil {
				return err
			}
			render.Report(cmd.OutOrStdout(), report)
			return nil
		}

		overview, err := a.stats.Overview(cmd.Context(), period)
		if err != nil {
			return err
		}
		render.Overview(cmd.OutOrStdout(), overview)
		return nil
	}),
}

func init() {
	statsCmd.Flags().StringP("period", "p", string(constants.PeriodDay), "Time period (day/week/month/year)")
	statsCmd.Flags().BoolP("detailed", "d", false, "Show detailed breakdowns")

	rootCmd.AddCommand(statsCmd)
}
