package commands

import (
	"github.com/spf13/cobra"
)

var (
	showOutput string

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the day's timeline and review",
		Long: `Print the stored timeline of the day, with the review score when one exists.

Examples:
  go-day-planner show
  go-day-planner show --output ics > today.ics
  go-day-planner show --date 2024-01-15 --output json`,
		Args: cobra.NoArgs,
		RunE: runShow,
	}
)

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "table",
		"Output format (table, json, csv, ics, summary)")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return a.render(cmd.OutOrStdout(), showOutput)
}
