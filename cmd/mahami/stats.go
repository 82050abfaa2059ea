package main

import (
	"github.com/spf13/cobra"

	"mahami/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.store.Stats()
	out := cmd.OutOrStdout()
	switch format := outputFormat(); format {
	case output.FormatJSON, output.FormatYAML:
		return output.Encode(out, format, s)
	case output.FormatCompact:
		output.Messagef(out, "%d total, %d completed, %d active, %d overdue, %d%% done",
			s.Total, s.Completed, s.Active, s.Overdue, s.CompletionRate)
	default:
		output.StatsTable(out, s)
	}
	return nil
}
