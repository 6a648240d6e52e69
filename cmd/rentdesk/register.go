package main

import (
	"github.com/aretw0/rentdesk/internal/cli"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register rentals through the terminal dialogue",
	Long: `Starts the registration dialogue on the terminal.
Commands: /start restarts, /cancel discards the registration, /photo <ref> attaches
a receipt, /quit leaves. Enumerated answers accept the token or its number.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		once, _ := cmd.Flags().GetBool("once")
		id, _ := cmd.Flags().GetString("conversation")

		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.RunRegister(cmd.Context(), env, cli.RegisterOptions{
				JSON:           jsonMode,
				Once:           once,
				ConversationID: id,
				In:             cmd.InOrStdin(),
				Out:            cmd.OutOrStdout(),
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	registerCmd.Flags().Bool("once", false, "Exit after the first finished registration")
	registerCmd.Flags().String("conversation", "", "Conversation id (default: random)")
}
