package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mahami/internal/clierr"
	"mahami/internal/output"
	"mahami/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add TITLE...",
	Aliases: []string{"new"},
	Short:   "Add a task",
	Long: `Creates a new, uncompleted task at the top of the list. Words after the
command are joined into the title.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringP("description", "m", "", "longer description")
	addCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringP("category", "c", "", "category")
	addCmd.Flags().StringP("priority", "p", "", "priority: low, medium or high (default from config)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return clierr.New(clierr.InvalidInput, "title cannot be empty")
	}

	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	in := task.Input{Title: title, Priority: a.cfg.Priority()}
	in.Description, _ = cmd.Flags().GetString("description")
	in.Category, _ = cmd.Flags().GetString("category")
	in.Category = strings.TrimSpace(in.Category)
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		if in.DueDate, err = parseDue(v); err != nil {
			return err
		}
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if in.Priority, err = parsePriority(v); err != nil {
			return err
		}
	}

	t, err := a.store.Add(in)
	if err != nil {
		return clierr.FromStore(err)
	}

	out := cmd.OutOrStdout()
	if f := outputFormat(); f.Structured() {
		return output.Encode(out, f, t)
	}
	output.Messagef(out, "Added task %s", taskLabel(t))
	return nil
}
