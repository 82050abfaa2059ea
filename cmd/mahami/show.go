package main

import (
	"github.com/spf13/cobra"

	"mahami/internal/output"
	"mahami/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.resolve(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format := outputFormat(); format {
	case output.FormatJSON, output.FormatYAML:
		return output.Encode(out, format, t)
	case output.FormatCompact:
		output.TaskCompact(out, cmd.ErrOrStderr(), []task.Task{t})
	default:
		output.TaskDetail(out, t, a.store.Now())
	}
	return nil
}
