package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mahami/internal/clierr"
	"mahami/internal/config"
	"mahami/internal/logging"
	"mahami/internal/reminder"
	"mahami/internal/storage"
	"mahami/internal/store"
	"mahami/internal/task"
)

// app is everything a command needs once config is loaded and the store is open.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	kv      storage.KV
	store   *store.Store
	sched   *reminder.Scheduler
	logFile *os.File
}

type appOptions struct {
	// interactive silences stderr logging so it cannot draw over the TUI.
	interactive bool
	// notifier builds the reminder sink. Nil leaves reminders unarmed.
	notifier func(*log.Logger) reminder.Notifier
}

func openApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath(flagConfig))
	if err != nil {
		return nil, clierr.Newf(clierr.InternalError, "load config: %v", err)
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	a := &app{cfg: cfg}
	if err := a.openLogger(cmd, opts.interactive); err != nil {
		return nil, clierr.New(clierr.InternalError, err.Error())
	}

	var n reminder.Notifier
	if opts.notifier != nil {
		n = opts.notifier(a.logger)
	}
	a.sched = reminder.New(n, reminder.Options{Enabled: cfg.Notifications, Logger: a.logger})

	a.kv, err = storage.OpenKV(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, clierr.Newf(clierr.InternalError, "open database: %v", err)
	}
	a.store, err = store.Open(a.kv, store.Options{Logger: a.logger, Scheduler: a.sched})
	if err != nil {
		a.Close()
		return nil, clierr.Newf(clierr.InternalError, "load tasks: %v", err)
	}
	a.logger.Debug("store opened", "db", cfg.DBPath, "tasks", a.store.Len())
	return a, nil
}

func (a *app) openLogger(cmd *cobra.Command, interactive bool) error {
	level := a.cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	switch {
	case a.cfg.LogFile != "":
		l, f, err := logging.OpenFile(a.cfg.LogFile, level)
		if err != nil {
			return err
		}
		a.logger, a.logFile = l, f
	case interactive:
		a.logger = logging.Discard()
	default:
		// Commands only surface warnings unless asked for more.
		if flagLogLevel == "" {
			level = "warn"
		}
		a.logger = logging.New(cmd.ErrOrStderr(), level)
	}
	return nil
}

func (a *app) Close() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close database", "err", err)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// watchPath is the database file to watch, or "" when the store is not on disk.
func (a *app) watchPath() string {
	if db, ok := a.kv.(*storage.SQLite); ok {
		return db.Path()
	}
	return ""
}

// resolve finds a task by id or unique id prefix.
func (a *app) resolve(ref string) (task.Task, error) {
	t, err := a.store.Resolve(ref)
	if err != nil {
		return task.Task{}, clierr.FromStore(err)
	}
	return t, nil
}

func parsePriority(v string) (task.Priority, error) {
	p, err := task.ParsePriority(v)
	if err != nil {
		return "", clierr.New(clierr.InvalidPriority, err.Error()).WithDetails(map[string]any{"value": v})
	}
	return p, nil
}

func parseDue(v string) (string, error) {
	due, err := task.NormalizeDue(v)
	if err != nil {
		return "", clierr.New(clierr.InvalidDate, err.Error()).WithDetails(map[string]any{"value": v})
	}
	return due, nil
}

func taskLabel(t task.Task) string {
	return fmt.Sprintf("%s: %s", t.ShortID(), t.Title)
}
