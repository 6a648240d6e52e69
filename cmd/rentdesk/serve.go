package main

import (
	"github.com/aretw0/rentdesk/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the registration dialogue and the record queries as a JSON API over HTTP, with SSE prompt streams and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(env *cli.Environment) error {
			addr := env.Config.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}
			return cli.Serve(cmd.Context(), env, addr, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides server.addr)")
}
