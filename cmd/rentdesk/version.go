package main

import (
	"fmt"

	"github.com/aretw0/rentdesk"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rentdesk",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rentdesk version %s\n", rentdesk.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
