package main

import (
	"strings"

	"github.com/aretw0/rentdesk/internal/cli"
	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Query the rental records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records, optionally for one date or the last N dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		last, _ := cmd.Flags().GetInt("last")
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.ListRecords(cmd.OutOrStdout(), env.Desk, cli.ListOptions{Date: date, Last: last})
		})
	},
}

var recordsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search records by name, phone, document, variant or kind and slot",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.SearchRecords(cmd.OutOrStdout(), env.Desk, strings.Join(args, " "))
		})
	},
}

var recordsClientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Show the clients of a date with their rentals",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.PrintClients(cmd.OutOrStdout(), env.Desk, date)
		})
	},
}

var recordsTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show records grouped by date",
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetInt("last")
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.PrintTimeline(cmd.OutOrStdout(), env.Desk, last)
		})
	},
}

var recordsReceiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Show which clients have a receipt photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.PrintReceipts(cmd.OutOrStdout(), env.Desk)
		})
	},
}

var recordsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every record as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.ExportRecords(cmd.OutOrStdout(), env.Desk, out)
		})
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsListCmd, recordsSearchCmd, recordsClientsCmd,
		recordsTimelineCmd, recordsReceiptsCmd, recordsExportCmd)

	recordsListCmd.Flags().String("date", "", "Only records of this date (DD/MM/YYYY)")
	recordsListCmd.Flags().Int("last", 0, "Only records of the last N dates")

	recordsClientsCmd.Flags().String("date", "", "Rental date (DD/MM/YYYY)")
	_ = recordsClientsCmd.MarkFlagRequired("date")

	recordsTimelineCmd.Flags().Int("last", 0, "Only the last N dates")

	recordsExportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}
