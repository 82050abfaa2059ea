package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mahami/internal/reminder"
	"mahami/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	bridge := ui.NewBridge()
	a, err := openApp(cmd, appOptions{
		interactive: true,
		notifier: func(l *log.Logger) reminder.Notifier {
			return reminder.MultiNotifier{reminder.LogNotifier{Logger: l}, bridge.Notifier()}
		},
	})
	if err != nil {
		return err
	}
	defer a.Close()

	opts := ui.Options{
		Store:  a.store,
		Config: a.cfg,
		Bridge: bridge,
		Logger: a.logger,
	}
	if a.cfg.WatchDB {
		opts.WatchPath = a.watchPath()
	}
	return ui.Run(opts)
}
