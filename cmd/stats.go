/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jacobarthurs/pgpev/internal/analyzer"
	"github.com/jacobarthurs/pgpev/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats [input]",
	Short: "Summarize timing, buffers and plan shape",
	Long: `Print a statistics report for a plan: total, planning, execution and I/O time,
shared, local and temp buffer usage with byte estimates, and the node count, depth,
sequential scans and outlier nodes.

Input is accepted in the same forms as the root command.`,
	Example: `  # Summarize a saved plan
  pgpev stats plan.json

  # Machine-readable report
  pgpev stats plan.json --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		annotated, err := loadPlan(cmd, args)
		if err != nil {
			return err
		}
		stats := analyzer.Summarize(annotated)

		if format == "json" {
			return output.RenderJSON(os.Stdout, stats)
		}

		styler, err := stylerFromFlags(cmd)
		if err != nil {
			return err
		}
		return output.RenderStats(os.Stdout, stats, styler)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	registerPlanFlags(statsCmd)
}
