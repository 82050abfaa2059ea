package main

import (
	"github.com/spf13/cobra"

	"mahami/internal/clierr"
	"mahami/internal/output"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle ID",
	Aliases: []string{"done"},
	Short:   "Flip a task between active and completed",
	Args:    cobra.ExactArgs(1),
	RunE:    runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.resolve(args[0])
	if err != nil {
		return err
	}
	t, err = a.store.Toggle(t.ID)
	if err != nil {
		return clierr.FromStore(err)
	}

	out := cmd.OutOrStdout()
	if f := outputFormat(); f.Structured() {
		return output.Encode(out, f, t)
	}
	if t.Completed {
		output.Messagef(out, "Completed task %s", taskLabel(t))
	} else {
		output.Messagef(out, "Reopened task %s", taskLabel(t))
	}
	return nil
}
