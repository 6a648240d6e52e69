package main

import (
	"github.com/aretw0/rentdesk/internal/cli"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage in-flight registrations",
	Long:  `List, inspect, and remove dialogues in progress. Useful with a shared (file or redis) session store.`,
}

var sessionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.ListSessions(cmd.Context(), cmd.OutOrStdout(), env.Desk)
		})
	},
}

var sessionsInspectCmd = &cobra.Command{
	Use:   "inspect <conversation-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.InspectSession(cmd.Context(), cmd.OutOrStdout(), env.Desk, args[0])
		})
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <conversation-id>...",
	Short: "Discard one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.RemoveSessions(cmd.Context(), cmd.OutOrStdout(), env.Desk, args)
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsLsCmd, sessionsInspectCmd, sessionsRmCmd)
}
