package main

import (
	"github.com/aretw0/rentdesk/internal/cli"
	"github.com/spf13/cobra"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Export the registration dialogue as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("session")
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.PrintFlow(cmd.Context(), cmd.OutOrStdout(), env.Desk, id)
		})
	},
}

func init() {
	rootCmd.AddCommand(flowCmd)
	flowCmd.Flags().String("session", "", "Highlight the state of this conversation")
}
