/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacobarthurs/pgpev/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with example template",
	Long: `Create the pgpev config file (config.yaml in the user config directory) with an
example template.

The config file stores display defaults and named database connection profiles so
you don't need to pass them on every invocation. If a config file already exists,
it will not be overwritten unless --force is given.`,
	Example: `  # Create default config
  pgpev init

  # Overwrite existing config
  pgpev init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path, err := config.WriteTemplate(force)
		if err != nil {
			return err
		}

		fmt.Printf("Created config at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config file")
}
