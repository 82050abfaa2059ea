package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mahami/internal/clierr"
	"mahami/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long:    `Removes a task permanently. Prompts for confirmation in interactive mode.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.resolve(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Delete task %s %q? [y/N] ", t.ShortID(), t.Title)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.ErrOrStderr(), "Canceled.")
			return nil
		}
	}

	if err := a.store.Delete(t.ID); err != nil {
		return clierr.FromStore(err)
	}

	out := cmd.OutOrStdout()
	if f := outputFormat(); f.Structured() {
		return output.Encode(out, f, map[string]any{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}
	output.Messagef(out, "Deleted task %s", taskLabel(t))
	return nil
}
