package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"mahami/internal/config"
	"mahami/internal/reminder"
	"mahami/internal/store"
	"mahami/internal/task"
	"mahami/internal/watcher"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modeRemind
	modeConfirmDelete
)

// tasksMsg carries a fresh collection published by the store.
type tasksMsg []task.Task

// reloadMsg asks the model to re-read the snapshot after an external write.
type reloadMsg struct{}

type reminderMsg reminder.Notification

type Model struct {
	store      *store.Store
	cfg        config.Config
	tasks      []task.Task
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	filter     task.Filter
	sortKey    task.SortKey
	form       *formState
	pendingDel *task.Task
	bell       io.Writer
	width      int
}

// Bridge hands reminder notifications to a running program. Notifications
// that fire before the program starts are dropped.
type Bridge struct {
	mu sync.Mutex
	p  *tea.Program
}

func NewBridge() *Bridge { return &Bridge{} }

func (b *Bridge) Notifier() reminder.FuncNotifier {
	return func(n reminder.Notification) error {
		b.mu.Lock()
		p := b.p
		b.mu.Unlock()
		if p == nil {
			return errors.New("ui not running")
		}
		go p.Send(reminderMsg(n))
		return nil
	}
}

func (b *Bridge) attach(p *tea.Program) {
	b.mu.Lock()
	b.p = p
	b.mu.Unlock()
}

type Options struct {
	Store  *store.Store
	Config config.Config
	Bridge *Bridge
	Logger *log.Logger
	// WatchPath is the database file to watch for external writes. Empty
	// disables watching.
	WatchPath string
}

func NewModel(st *store.Store, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:   st,
		cfg:     cfg,
		input:   ti,
		mode:    modeList,
		status:  fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to delete.", cfg.Keys.Add, keyName(cfg.Keys.Toggle), cfg.Keys.Delete),
		filter:  task.Filter{Status: cfg.Filter()},
		sortKey: cfg.Sort(),
		bell:    os.Stderr,
	}
	m.refresh()
	return m
}

func Run(opts Options) error {
	m := NewModel(opts.Store, opts.Config)
	program := tea.NewProgram(m, tea.WithAltScreen())

	// Send must not run on the Update goroutine, which is where store
	// mutations publish from.
	unsubscribe := opts.Store.Subscribe(func(tasks []task.Task) {
		go program.Send(tasksMsg(tasks))
	})
	defer unsubscribe()

	if opts.Bridge != nil {
		opts.Bridge.attach(program)
		defer opts.Bridge.attach(nil)
	}

	if opts.WatchPath != "" {
		w, err := watcher.New(opts.WatchPath, func() { program.Send(reloadMsg{}) })
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("database watch disabled", "err", err)
			}
		} else {
			defer w.Close()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx, func(err error) {
				if opts.Logger != nil {
					opts.Logger.Warn("database watch error", "err", err)
				}
			})
		}
	}

	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateFormMode(msg)
		case modeSearch:
			return m.updateSearchMode(msg)
		case modeRemind:
			return m.updateRemindMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tasksMsg:
		m.refresh()
	case reloadMsg:
		if err := m.store.Reload(); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
		}
		m.refresh()
	case reminderMsg:
		m.status = "🔔 " + reminder.Notification(msg).Message()
		return m, m.ring()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

// refresh recomputes the visible list, keeping the cursor on the same task
// when it is still visible.
func (m *Model) refresh() {
	var selected string
	if t, ok := m.current(); ok {
		selected = t.ID
	}
	m.tasks = m.store.View(m.filter, m.sortKey)
	m.cursor = clampCursor(m.cursor, len(m.tasks))
	if selected == "" {
		return
	}
	for i, t := range m.tasks {
		if t.ID == selected {
			m.cursor = i
			return
		}
	}
}

func (m Model) current() (task.Task, bool) {
	if len(m.tasks) == 0 || m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m Model) ring() tea.Cmd {
	w := m.bell
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		fmt.Fprint(w, "\a")
		return nil
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case k.Add:
		m.form = newAddForm(m.cfg.Priority())
		return m.enterForm("Add task: tab to move, enter to save on the last field, esc to cancel")
	case k.Edit:
		t, ok := m.current()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		m.form = newEditForm(t)
		return m.enterForm("Edit task: tab to move, enter to save on the last field, esc to cancel")
	case k.Toggle:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		updated, err := m.store.Toggle(t.ID)
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = fmt.Sprintf("%q marked %s", updated.Title, humanDone(updated.Completed))
	case k.Delete:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.pendingDel = &t
		m.mode = modeConfirmDelete
		m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
	case k.Remind:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.mode = modeRemind
		m.input.SetValue("")
		m.input.Placeholder = "YYYY-MM-DD HH:MM or 30m"
		m.input.Focus()
		m.status = fmt.Sprintf("Remind %q at: enter to set, esc to cancel", t.Title)
	case k.ClearReminder:
		t, ok := m.current()
		if !ok || t.Reminder == nil {
			m.status = "No reminder to clear"
			return m, nil
		}
		if _, err := m.store.ClearReminder(t.ID); err != nil {
			m.status = fmt.Sprintf("clear reminder failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = "Reminder cleared"
	case k.Search:
		m.mode = modeSearch
		m.input.SetValue(m.filter.Query)
		m.input.Placeholder = "search title or description"
		m.input.Focus()
		m.status = "Search: enter to keep, esc to clear"
	case k.CycleCategory:
		m.filter.Category = cycleValue(append([]string{""}, m.cfg.Categories...), m.filter.Category, 1)
		m.refresh()
	case k.CycleStatus:
		m.filter.Status = task.Status(cycleValue(statusNames(), string(m.filter.Status), 1))
		m.refresh()
	case k.CycleSort:
		m.sortKey = task.SortKey(cycleValue(sortNames(), string(m.sortKey), 1))
		m.refresh()
		m.status = "Sorted by " + string(m.sortKey)
	case k.ClearFilters:
		m.filter = task.Filter{Status: task.StatusAll}
		m.refresh()
		m.status = "Filters cleared"
	}
	return m, nil
}

func (m Model) enterForm(status string) (tea.Model, tea.Cmd) {
	m.mode = modeForm
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.Focus()
	m.status = status
	return m, textinput.Blink
}

func (m Model) leaveInput(status string) Model {
	m.mode = modeList
	m.form = nil
	m.input.SetValue("")
	m.input.Blur()
	m.status = status
	return m
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch msg.String() {
	case k.Cancel, "esc":
		return m.leaveInput("Cancelled"), nil
	case k.NextField, "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.move(1)
	case k.PrevField, "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.move(-1)
	case k.OptionNext, k.OptionPrevious:
		if !m.form.hasChoices() {
			return m, nil
		}
		delta := 1
		if msg.String() == k.OptionPrevious {
			delta = -1
		}
		m.form.setCurrentValue(m.input.Value())
		m.form.cycle(delta, m.cfg.Categories)
	case k.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= fieldCount-1 {
			return m.saveForm()
		}
		m.form.move(1)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	return m, nil
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	f := m.form
	if f.editing() {
		p, err := f.patch()
		if err != nil {
			m.status = fmt.Sprintf("invalid: %v", err)
			return m, nil
		}
		if _, err := m.store.Edit(f.taskID, p); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m = m.leaveInput("Task saved")
		m.refresh()
		return m, nil
	}

	in, err := f.input()
	if err != nil {
		m.status = fmt.Sprintf("invalid: %v", err)
		return m, nil
	}
	added, err := m.store.Add(in)
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m = m.leaveInput("Added task")
	m.refresh()
	for i, t := range m.tasks {
		if t.ID == added.ID {
			m.cursor = i
			break
		}
	}
	return m, nil
}

func (m Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		m.filter.Query = ""
		m = m.leaveInput("Search cleared")
		m.refresh()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		query := m.filter.Query
		m = m.leaveInput(fmt.Sprintf("%d matching %q", len(m.tasks), query))
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter.Query = m.input.Value()
	m.refresh()
	return m, cmd
}

func (m Model) updateRemindMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		return m.leaveInput("Cancelled"), nil
	case m.cfg.Keys.Confirm, "enter":
		t, ok := m.current()
		if !ok {
			return m.leaveInput("No task selected"), nil
		}
		at, err := task.ParseReminder(m.input.Value(), m.store.Now(), time.Local)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		if _, err := m.store.SetReminder(t.ID, at); err != nil {
			if errors.Is(err, store.ErrReminderNotInFuture) {
				m.status = "Reminder must be in the future"
				return m, nil
			}
			m.status = fmt.Sprintf("set reminder failed: %v", err)
			return m, nil
		}
		m = m.leaveInput("Reminder set for " + at.Local().Format(task.DateTimeLayout))
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		if err := m.store.Delete(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			break
		}
		m.refresh()
		m.status = "Deleted task"
	default:
		return m, nil
	}
	m.mode = modeList
	m.pendingDel = nil
	return m, nil
}

func statusNames() []string {
	out := make([]string, len(task.Statuses))
	for i, s := range task.Statuses {
		out[i] = string(s)
	}
	return out
}

func sortNames() []string {
	out := make([]string, len(task.SortKeys))
	for i, k := range task.SortKeys {
		out[i] = string(k)
	}
	return out
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "active"
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
