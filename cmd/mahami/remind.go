package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mahami/internal/clierr"
	"mahami/internal/output"
	"mahami/internal/reminder"
	"mahami/internal/task"
)

var remindCmd = &cobra.Command{
	Use:   "remind ID [WHEN]",
	Short: "Set or clear a task reminder",
	Long: `Sets a reminder on a task. WHEN is "YYYY-MM-DD HH:MM" in local time, an
RFC 3339 timestamp, or a duration from now such as 30m or 2h. The time must
be in the future.

Reminders only fire while mahami is running. Use --wait to keep this command
running until the reminder fires.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().Bool("clear", false, "remove the reminder")
	remindCmd.Flags().BoolP("wait", "w", false, "block until the reminder fires")
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	unset, _ := cmd.Flags().GetBool("clear")
	wait, _ := cmd.Flags().GetBool("wait")
	switch {
	case unset && len(args) == 2:
		return clierr.New(clierr.InvalidInput, "--clear takes no time argument")
	case unset && wait:
		return clierr.New(clierr.InvalidInput, "--clear and --wait cannot be combined")
	case !unset && len(args) == 1:
		return clierr.New(clierr.InvalidInput, "missing reminder time")
	}

	fired := make(chan reminder.Notification, 1)
	opts := appOptions{}
	if wait {
		opts.notifier = func(*log.Logger) reminder.Notifier {
			return reminder.MultiNotifier{
				reminder.LogNotifier{Logger: log.NewWithOptions(cmd.ErrOrStderr(), log.Options{ReportTimestamp: true, Prefix: "mahami"})},
				reminder.FuncNotifier(func(n reminder.Notification) error {
					fired <- n
					return nil
				}),
			}
		}
	}

	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.resolve(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if unset {
		t, err = a.store.ClearReminder(t.ID)
		if err != nil {
			return clierr.FromStore(err)
		}
		if f := outputFormat(); f.Structured() {
			return output.Encode(out, f, t)
		}
		output.Messagef(out, "Cleared reminder on %s", taskLabel(t))
		return nil
	}

	at, err := task.ParseReminder(args[1], a.store.Now(), time.Local)
	if err != nil {
		return clierr.New(clierr.InvalidDate, err.Error()).WithDetails(map[string]any{"value": args[1]})
	}
	t, err = a.store.SetReminder(t.ID, at)
	if err != nil {
		return clierr.FromStore(err)
	}

	if f := outputFormat(); f.Structured() {
		if err := output.Encode(out, f, t); err != nil {
			return err
		}
	} else {
		output.Messagef(out, "Reminder for %s set at %s", taskLabel(t), at.Local().Format(task.DateTimeLayout))
	}
	if !wait {
		return nil
	}
	if a.sched.Pending() == 0 {
		return clierr.New(clierr.InvalidInput, "notifications are disabled in config; nothing to wait for")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case n := <-fired:
		if !outputFormat().Structured() {
			fmt.Fprintln(out, n.Message())
		}
		return nil
	case <-ctx.Done():
		fmt.Fprintln(cmd.ErrOrStderr(), "Canceled.")
		return nil
	}
}
