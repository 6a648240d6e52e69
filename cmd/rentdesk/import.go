package main

import (
	"fmt"
	"time"

	"github.com/aretw0/rentdesk/internal/cli"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <legacy.json>",
	Short: "Import records exported by the previous bot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		tz, _ := cmd.Flags().GetString("timezone")

		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tz, err)
		}

		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.ImportLegacy(cmd.Context(), cmd.OutOrStdout(), env.Desk, cli.ImportOptions{
				Path:     args[0],
				Location: loc,
				DryRun:   dryRun,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("dry-run", false, "Convert and report without saving")
	importCmd.Flags().String("timezone", "Local", "Time zone of the legacy timestamps")
}
