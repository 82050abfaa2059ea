// Package store owns the task collection. Every mutation writes a full
// snapshot to the key-value store before it becomes visible, then notifies
// subscribers.
package store

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"mahami/internal/snapshot"
	"mahami/internal/storage"
	"mahami/internal/task"
)

var (
	ErrNotFound            = errors.New("task not found")
	ErrAmbiguousID         = errors.New("id prefix matches more than one task")
	ErrReminderNotInFuture = errors.New("reminder must be in the future")
	errDuplicateID         = errors.New("generated id already in use")
)

// Scheduler arms and cancels reminder timers.
type Scheduler interface {
	Schedule(id, title string, at time.Time) bool
	Cancel(id string)
}

type Options struct {
	Logger    *log.Logger
	Scheduler Scheduler
	Now       func() time.Time
}

type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	tasks   []task.Task
	version uint64
	logger  *log.Logger
	sched   Scheduler
	now     func() time.Time

	subMu  sync.Mutex
	subs   map[int]func([]task.Task)
	nextID int

	// deliverMu serializes deliveries; delivered is the newest version sent.
	deliverMu sync.Mutex
	delivered uint64
}

// Open hydrates a store from kv. Missing or malformed snapshots start an
// empty collection; read errors are returned.
func Open(kv storage.KV, opts Options) (*Store, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	s := &Store{
		kv:     kv,
		logger: opts.Logger,
		sched:  opts.Scheduler,
		now:    opts.Now,
		subs:   map[int]func([]task.Task){},
	}
	tasks, err := s.hydrate()
	if err != nil {
		return nil, err
	}
	s.tasks = tasks
	return s, nil
}

func (s *Store) hydrate() ([]task.Task, error) {
	data, err := s.kv.Get(snapshot.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	tasks, err := snapshot.Decode(data)
	if err != nil {
		s.logger.Warn("ignoring unreadable snapshot, starting empty", "err", err)
		return []task.Task{}, nil
	}
	s.logger.Debug("snapshot loaded", "tasks", len(tasks))
	return tasks, nil
}

// Reload re-reads the snapshot, picking up writes from other processes.
func (s *Store) Reload() error {
	s.mu.Lock()
	tasks, err := s.hydrate()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	old := s.tasks
	s.tasks = tasks
	s.version++
	ver := s.version
	view := task.CloneAll(tasks)
	s.reconcileLocked(old, tasks)
	s.mu.Unlock()

	s.publish(view, ver)
	return nil
}

// reconcileLocked brings armed timers in line with a collection read from disk.
// Timers of tasks that are gone or lost their reminder are cancelled, and
// future reminders that are new or changed are armed.
func (s *Store) reconcileLocked(old, next []task.Task) {
	if s.sched == nil {
		return
	}
	prev := make(map[string]task.Task, len(old))
	for _, t := range old {
		prev[t.ID] = t
	}
	now := s.now()
	for _, t := range next {
		before, had := prev[t.ID]
		delete(prev, t.ID)
		if t.Reminder == nil || !t.Reminder.After(now) {
			if had && before.Reminder != nil {
				s.sched.Cancel(t.ID)
			}
			continue
		}
		if had && before.Reminder != nil && before.Reminder.Equal(*t.Reminder) && before.Title == t.Title {
			continue
		}
		s.sched.Schedule(t.ID, t.Title, *t.Reminder)
	}
	for id, t := range prev {
		if t.Reminder != nil {
			s.sched.Cancel(id)
		}
	}
}

// Tasks returns a copy of the collection in stored order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.CloneAll(s.tasks)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Store) Get(id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.tasks[i].Clone(), nil
}

// Resolve finds a task by exact id or by a unique id prefix.
func (s *Store) Resolve(ref string) (task.Task, error) {
	ref = strings.TrimSpace(ref)
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref == "" {
		return task.Task{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	if i := s.indexLocked(ref); i >= 0 {
		return s.tasks[i].Clone(), nil
	}
	match := -1
	for i, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			if match >= 0 {
				return task.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
			}
			match = i
		}
	}
	if match < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return s.tasks[match].Clone(), nil
}

func (s *Store) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add prepends a new uncompleted task.
func (s *Store) Add(in task.Input) (task.Task, error) {
	s.mu.Lock()
	t := task.New(in, s.now())
	if s.indexLocked(t.ID) >= 0 {
		s.mu.Unlock()
		return task.Task{}, errDuplicateID
	}
	next := make([]task.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	view, ver, err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Info("task added", "id", t.ID, "title", t.Title)
	s.publish(view, ver)
	return t.Clone(), nil
}

func (s *Store) Toggle(id string) (task.Task, error) {
	t, err := s.update(id, func(t task.Task) task.Task {
		t.Completed = !t.Completed
		return t
	})
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Info("task toggled", "id", id, "completed", t.Completed)
	return t, nil
}

// Edit merges the non-nil patch fields into the task.
// A rename re-arms a pending reminder so the notification carries the new title.
func (s *Store) Edit(id string, p task.Patch) (task.Task, error) {
	var oldTitle string
	t, err := s.update(id, func(t task.Task) task.Task {
		oldTitle = t.Title
		return p.Apply(t)
	})
	if err != nil {
		return task.Task{}, err
	}
	if s.sched != nil && t.Title != oldTitle && t.Reminder != nil && t.Reminder.After(s.now()) {
		s.sched.Schedule(t.ID, t.Title, *t.Reminder)
	}
	s.logger.Info("task edited", "id", id)
	return t, nil
}

// SetReminder stores a future reminder and arms its timer. Times not strictly
// after now are rejected and nothing is stored.
func (s *Store) SetReminder(id string, at time.Time) (task.Task, error) {
	if at.IsZero() || !at.After(s.now()) {
		return task.Task{}, ErrReminderNotInFuture
	}
	at = at.UTC()
	t, err := s.update(id, func(t task.Task) task.Task {
		r := at
		t.Reminder = &r
		return t
	})
	if err != nil {
		return task.Task{}, err
	}
	armed := false
	if s.sched != nil {
		armed = s.sched.Schedule(t.ID, t.Title, at)
	}
	s.logger.Info("reminder set", "id", id, "at", at, "armed", armed)
	return t, nil
}

func (s *Store) ClearReminder(id string) (task.Task, error) {
	t, err := s.update(id, func(t task.Task) task.Task {
		t.Reminder = nil
		return t
	})
	if err != nil {
		return task.Task{}, err
	}
	if s.sched != nil {
		s.sched.Cancel(id)
	}
	s.logger.Info("reminder cleared", "id", id)
	return t, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := make([]task.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	view, ver, err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if s.sched != nil {
		s.sched.Cancel(id)
	}
	s.logger.Info("task deleted", "id", id)
	s.publish(view, ver)
	return nil
}

// update replaces the task with id by fn's result, keeping id and createdAt.
func (s *Store) update(id string, fn func(task.Task) task.Task) (task.Task, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	old := s.tasks[i]
	changed := fn(old.Clone())
	changed.ID = old.ID
	changed.CreatedAt = old.CreatedAt

	next := make([]task.Task, len(s.tasks))
	copy(next, s.tasks)
	next[i] = changed
	view, ver, err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		return task.Task{}, err
	}
	s.publish(view, ver)
	return changed.Clone(), nil
}

// commitLocked persists next and swaps it in only if the write succeeded.
func (s *Store) commitLocked(next []task.Task) ([]task.Task, uint64, error) {
	data, err := snapshot.Encode(next)
	if err != nil {
		return nil, 0, err
	}
	if err := s.kv.Put(snapshot.Key, data); err != nil {
		s.logger.Error("snapshot write failed", "err", err)
		return nil, 0, fmt.Errorf("write snapshot: %w", err)
	}
	s.tasks = next
	s.version++
	return task.CloneAll(next), s.version, nil
}

// Subscribe registers fn to receive the collection after every change.
// Deliveries are serialized and arrive in commit order; a collection that a
// newer one overtook before delivery is skipped. fn runs on the mutating
// goroutine after the store lock is released and must not mutate the store.
func (s *Store) Subscribe(fn func([]task.Task)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(tasks []task.Task, ver uint64) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if ver <= s.delivered {
		return
	}
	s.delivered = ver

	s.subMu.Lock()
	fns := make([]func([]task.Task), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(task.CloneAll(tasks))
	}
}

// Now is the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Stats computes statistics over the current collection.
func (s *Store) Stats() task.Stats {
	return task.ComputeStats(s.Tasks(), s.now())
}

// View returns the filtered, sorted view without touching the collection.
func (s *Store) View(f task.Filter, key task.SortKey) []task.Task {
	return task.View(s.Tasks(), f, key)
}
