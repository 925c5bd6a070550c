/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jacobarthurs/pgpev/internal/analyzer"
	"github.com/jacobarthurs/pgpev/internal/config"
	"github.com/jacobarthurs/pgpev/internal/output"
	"github.com/jacobarthurs/pgpev/internal/plan"
)

func runVisualize(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	annotated, err := loadPlan(cmd, args)
	if err != nil {
		return err
	}

	if format == "json" {
		return output.RenderAnnotatedJSON(os.Stdout, annotated)
	}

	styler, err := stylerFromFlags(cmd)
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetInt("width")

	return output.RenderTree(os.Stdout, annotated, output.TreeOptions{Width: width, Styler: styler})
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return "", fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
	}
	return format, nil
}

// loadPlan resolves the input named by args into an analyzed document.
func loadPlan(cmd *cobra.Command, args []string) (*analyzer.Annotated, error) {
	ctx := cmd.Context()
	db, _ := cmd.Flags().GetString("db")
	profileName, _ := cmd.Flags().GetString("profile")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")

	connStr, err := config.ResolveConnStr(db, profileName)
	if err != nil {
		return nil, err
	}

	var input string
	if len(args) > 0 {
		input = args[0]
	}

	explain, err := plan.Resolve(ctx, input, connStr)
	if err != nil {
		return nil, err
	}

	annotated, err := analyzer.Analyze(&explain, analyzer.Options{MaxDepth: maxDepth})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().
		Float64("total_cost", annotated.TotalCost).
		Int64("max_rows", annotated.MaxRows).
		Float64("max_cost", annotated.MaxCost).
		Float64("max_duration", annotated.MaxDuration).
		Int("depth", analyzer.Depth(annotated.Root())).
		Msg("analyzed plan")

	return annotated, nil
}
