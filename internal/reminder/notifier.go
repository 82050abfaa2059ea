package reminder

import (
	"errors"

	"github.com/charmbracelet/log"
)

// LogNotifier surfaces reminders as info log lines.
type LogNotifier struct {
	Logger *log.Logger
}

func (l LogNotifier) Notify(n Notification) error {
	l.Logger.Info(n.Message(), "task", n.TaskID, "at", n.At.Local().Format("2006-01-02 15:04"))
	return nil
}

type FuncNotifier func(Notification) error

func (f FuncNotifier) Notify(n Notification) error { return f(n) }

// MultiNotifier delivers to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(n Notification) error {
	var errs []error
	for _, nn := range m {
		if err := nn.Notify(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
