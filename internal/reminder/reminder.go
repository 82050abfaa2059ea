// Package reminder fires best-effort, session-scoped reminder notifications.
// Timers live only as long as the process; nothing is persisted.
package reminder

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type Notification struct {
	TaskID string
	Title  string
	At     time.Time
}

func (n Notification) Message() string {
	return "Reminder: " + n.Title
}

type Notifier interface {
	Notify(n Notification) error
}

// Scheduler keeps at most one pending timer per task id.
type Scheduler struct {
	mu       sync.Mutex
	enabled  bool
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
	timers   map[string]*pending
	stopped  bool
}

type pending struct {
	timer *time.Timer
}

type Options struct {
	// Enabled mirrors the notification permission. A disabled scheduler
	// accepts reminders and never fires them.
	Enabled bool
	Logger  *log.Logger
	Now     func() time.Time
}

func New(n Notifier, opts Options) *Scheduler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	return &Scheduler{
		enabled:  opts.Enabled,
		notifier: n,
		logger:   opts.Logger,
		now:      opts.Now,
		timers:   map[string]*pending{},
	}
}

// Schedule arms a one-shot timer for id at the given instant, replacing any
// earlier timer for the same id. It reports whether a timer was armed.
func (s *Scheduler) Schedule(id, title string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.stopped || s.notifier == nil {
		s.logger.Debug("reminder not armed", "task", id, "enabled", s.enabled)
		return false
	}
	delay := at.Sub(s.now())
	if delay <= 0 {
		return false
	}
	if old, ok := s.timers[id]; ok {
		old.timer.Stop()
	}

	n := Notification{TaskID: id, Title: title, At: at}
	p := &pending{}
	p.timer = time.AfterFunc(delay, func() {
		s.fire(p, n)
	})
	s.timers[id] = p
	s.logger.Debug("reminder armed", "task", id, "in", delay.Round(time.Second))
	return true
}

func (s *Scheduler) fire(p *pending, n Notification) {
	s.mu.Lock()
	if cur, ok := s.timers[n.TaskID]; !ok || cur != p {
		s.mu.Unlock()
		return
	}
	delete(s.timers, n.TaskID)
	s.mu.Unlock()

	if err := s.notifier.Notify(n); err != nil {
		s.logger.Warn("reminder notification failed", "task", n.TaskID, "err", err)
	}
}

// Cancel drops the pending timer for id, if any.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.timers[id]; ok {
		p.timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer. Later calls to Schedule are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.timers {
		p.timer.Stop()
		delete(s.timers, id)
	}
	s.stopped = true
}
