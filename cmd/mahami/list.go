package main

import (
	"github.com/spf13/cobra"

	"mahami/internal/clierr"
	"mahami/internal/output"
	"mahami/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks after filtering and sorting. Filters are combined: a task must
match the search text, the category and the status to be shown.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringP("search", "q", "", "case-insensitive text in title or description")
	listCmd.Flags().StringP("category", "c", "", "only this category")
	listCmd.Flags().StringP("status", "s", "", "all, active or completed (default from config)")
	listCmd.Flags().String("sort", "", "createdAt, dueDate or priority (default from config)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	f := task.Filter{Status: a.cfg.Filter()}
	f.Query, _ = cmd.Flags().GetString("search")
	f.Category, _ = cmd.Flags().GetString("category")
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		if f.Status, err = task.ParseStatus(v); err != nil {
			return clierr.New(clierr.InvalidStatus, err.Error())
		}
	}
	key := a.cfg.Sort()
	if v, _ := cmd.Flags().GetString("sort"); v != "" {
		if key, err = task.ParseSortKey(v); err != nil {
			return clierr.New(clierr.InvalidSort, err.Error())
		}
	}

	tasks := a.store.View(f, key)
	out := cmd.OutOrStdout()
	switch format := outputFormat(); format {
	case output.FormatJSON, output.FormatYAML:
		return output.Encode(out, format, tasks)
	case output.FormatCompact:
		output.TaskCompact(out, cmd.ErrOrStderr(), tasks)
	default:
		output.TaskTable(out, cmd.ErrOrStderr(), tasks, a.store.Now())
	}
	return nil
}
