package main

import (
	"errors"

	"github.com/aretw0/rentdesk/internal/cli"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Change one field of one record",
	Long: `Selects a record by --query (name or phone, must match exactly one record) or by
--index, and overwrites --field with --value after validating it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		index, _ := cmd.Flags().GetInt("index")
		field, _ := cmd.Flags().GetString("field")
		value, _ := cmd.Flags().GetString("value")

		if (query == "") == (index < 0) {
			return errors.New("exactly one of --query or --index is required")
		}

		return withEnvironment(cmd, func(env *cli.Environment) error {
			return cli.EditRecord(cmd.Context(), cmd.OutOrStdout(), env.Desk, cli.EditOptions{
				Query: query,
				Index: index,
				Field: field,
				Value: value,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("query", "q", "", "Search query selecting the record")
	editCmd.Flags().IntP("index", "i", -1, "Record index")
	editCmd.Flags().StringP("field", "f", "", "Field to change")
	editCmd.Flags().String("value", "", "New value")
	_ = editCmd.MarkFlagRequired("field")
	_ = editCmd.MarkFlagRequired("value")
}
