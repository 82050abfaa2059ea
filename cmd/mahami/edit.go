package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mahami/internal/clierr"
	"mahami/internal/output"
	"mahami/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only the flags given are changed;
pass an empty value to clear the description, due date or category.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().StringP("description", "m", "", "new description")
	editCmd.Flags().String("due", "", "new due date (YYYY-MM-DD), empty to clear")
	editCmd.Flags().StringP("category", "c", "", "new category, empty to clear")
	editCmd.Flags().StringP("priority", "p", "", "new priority: low, medium or high")
	editCmd.Flags().Bool("completed", false, "set the completed flag")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	p, err := editPatch(cmd)
	if err != nil {
		return err
	}
	if p.Empty() {
		return clierr.New(clierr.NoChanges, "no changes given; see mahami edit --help")
	}

	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.resolve(args[0])
	if err != nil {
		return err
	}
	t, err = a.store.Edit(t.ID, p)
	if err != nil {
		return clierr.FromStore(err)
	}

	out := cmd.OutOrStdout()
	if f := outputFormat(); f.Structured() {
		return output.Encode(out, f, t)
	}
	output.Messagef(out, "Updated task %s", taskLabel(t))
	return nil
}

// editPatch builds a patch from the flags the user actually set.
func editPatch(cmd *cobra.Command) (task.Patch, error) {
	var p task.Patch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		v = strings.TrimSpace(v)
		if v == "" {
			return p, clierr.New(clierr.InvalidInput, "title cannot be empty")
		}
		p.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		p.Description = &v
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		due, err := parseDue(v)
		if err != nil {
			return p, err
		}
		p.DueDate = &due
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		v = strings.TrimSpace(v)
		p.Category = &v
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		prio, err := parsePriority(v)
		if err != nil {
			return p, err
		}
		p.Priority = &prio
	}
	if flags.Changed("completed") {
		v, _ := flags.GetBool("completed")
		p.Completed = &v
	}
	return p, nil
}
