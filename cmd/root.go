/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jacobarthurs/pgpev/internal/analyzer"
	"github.com/jacobarthurs/pgpev/internal/config"
	"github.com/jacobarthurs/pgpev/internal/output"
)

const envPrefix = "PGPEV"

var Version = "dev"

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	rootCmd.Version = Version

	rootCmd.PersistentFlags().String("color", string(output.ColorAuto), "Color output: auto, always, never")
	rootCmd.PersistentFlags().String("log-level", "warn", `Log verbosity: "trace", "debug", "info", "warn", "error"`)
	rootCmd.PersistentFlags().String("log-format", "auto", `Log format: "auto", "console", "json"`)
	registerPlanFlags(rootCmd)
}

var rootCmd = &cobra.Command{
	Use:          "pgpev [input]",
	SilenceUsage: true,
	Short:        "Visualize PostgreSQL EXPLAIN ANALYZE plans",
	Long: `pgpev renders a PostgreSQL EXPLAIN (ANALYZE, FORMAT JSON) plan as an annotated
tree in the terminal.

Each node shows its exclusive duration and cost, its row count and details, and is
tagged when it is the slowest, costliest or largest node or when the planner
misestimated its rows by 100x or more.

Input can be a JSON file, inline JSON, a SQL file or query (run against a
database), "-" for stdin, or nothing for interactive mode.`,
	Example: `  # Visualize a saved plan
  pgpev plan.json

  # Pipe from psql
  psql -qAtc "EXPLAIN (ANALYZE, FORMAT JSON) SELECT 1" | pgpev -

  # Run a query against a saved profile
  pgpev query.sql --profile prod

  # Emit the annotated plan as JSON
  pgpev plan.json --format json`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: commandStack(syncViperPreRunE(envPrefix), zeroLogPreRunE, configPreRunE),
	RunE:              runVisualize,
}

func Execute() {
	if code := exitCode(rootCmd.ExecuteContext(context.Background())); code != 0 {
		os.Exit(code)
	}
}

// exitCode keeps depth exhaustion distinguishable from every other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, analyzer.ErrPlanTooDeep):
		return 2
	default:
		return 1
	}
}

// registerPlanFlags adds the flags shared by every command that loads a plan.
func registerPlanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("db", "d", "", "PostgreSQL connection string")
	cmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	cmd.Flags().IntP("width", "w", output.DefaultWidth, "Column budget for wrapped text")
	cmd.Flags().Int("max-depth", analyzer.DefaultMaxDepth, "Deepest plan nesting accepted")
	cmd.MarkFlagsMutuallyExclusive("db", "profile")
}

type cobraRunFunc func(cmd *cobra.Command, args []string) error

func commandStack(fns ...cobraRunFunc) cobraRunFunc {
	return func(cmd *cobra.Command, args []string) error {
		for _, fn := range fns {
			if err := fn(cmd, args); err != nil {
				return err
			}
		}
		return nil
	}
}

// syncViperPreRunE fills every flag the user did not set from its
// PREFIX_FLAG_NAME environment variable.
func syncViperPreRunE(prefix string) cobraRunFunc {
	return func(cmd *cobra.Command, args []string) error {
		v := viper.New()

		var err error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			suffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			_ = v.BindEnv(f.Name, prefix+"_"+suffix)

			if err == nil && !f.Changed && v.IsSet(f.Name) {
				if setErr := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); setErr != nil {
					err = fmt.Errorf("applying %s_%s: %w", prefix, suffix, setErr)
				}
			}
		})
		return err
	}
}

func zeroLogPreRunE(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("log-format")
	switch format {
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	case "auto":
		if isatty.IsTerminal(os.Stderr.Fd()) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		}
	case "json":
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}

	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil || level == zerolog.NoLevel {
		return fmt.Errorf("unknown log level: %s", levelName)
	}
	zerolog.SetGlobalLevel(level)

	cmd.SetContext(log.Logger.WithContext(cmd.Context()))
	log.Ctx(cmd.Context()).Debug().Str("level", level.String()).Msg("set log level")
	return nil
}

// configPreRunE applies config file settings to flags that neither the
// command line nor the environment set.
func configPreRunE(cmd *cobra.Command, args []string) error {
	if !needsSettings(cmd) {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if path, err := config.Path(); err == nil {
		log.Ctx(cmd.Context()).Debug().Str("path", path).Msg("loaded config")
	}

	settings := map[string]string{"color": cfg.Color}
	if cfg.Width > 0 {
		settings["width"] = strconv.Itoa(cfg.Width)
	}
	if cfg.MaxDepth > 0 {
		settings["max-depth"] = strconv.Itoa(cfg.MaxDepth)
	}

	for name, value := range settings {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed || value == "" {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("applying config %s: %w", name, err)
		}
	}
	return nil
}

// needsSettings reports whether cmd renders plans; config and profile
// management must keep working when the config file is broken.
func needsSettings(cmd *cobra.Command) bool {
	return cmd.Flags().Lookup("max-depth") != nil
}

func stylerFromFlags(cmd *cobra.Command) (*output.Styler, error) {
	value, _ := cmd.Flags().GetString("color")
	mode, err := output.ParseColorMode(value)
	if err != nil {
		return nil, err
	}
	return output.NewStyler(mode), nil
}
