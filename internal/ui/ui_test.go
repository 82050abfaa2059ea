package ui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mahami/internal/config"
	"mahami/internal/reminder"
	"mahami/internal/snapshot"
	"mahami/internal/storage"
	"mahami/internal/store"
	"mahami/internal/task"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *storage.Memory, *bytes.Buffer) {
	t.Helper()
	kv := storage.NewMemory()
	st, err := store.Open(kv, store.Options{Now: func() time.Time { return now }})
	require.NoError(t, err)
	m := NewModel(st, config.Default())
	bell := &bytes.Buffer{}
	m.bell = bell
	return m, kv, bell
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func seed(t *testing.T, m Model, titles ...string) Model {
	t.Helper()
	for _, title := range titles {
		_, err := m.store.Add(task.Input{Title: title, Priority: task.PriorityMedium})
		require.NoError(t, err)
	}
	m.refresh()
	return m
}

func TestAddForm(t *testing.T) {
	m, kv, _ := newTestModel(t)

	m = press(t, m, "a", "Buy milk", "enter", "enter", "2024-03-20", "enter", "enter", "enter")

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Added task", m.status)
	require.Len(t, m.tasks, 1)
	got := m.tasks[0]
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2024-03-20", got.DueDate)
	assert.Equal(t, task.PriorityMedium, got.Priority)

	data, err := kv.Get(snapshot.Key)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Buy milk")
}

func TestAddForm_RejectsEmptyTitle(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "a", "enter", "enter", "enter", "enter", "enter")

	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.status, "title cannot be empty")
	assert.Zero(t, m.store.Len())

	m = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.form)
}

func TestAddForm_RejectsBadDate(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "a", "Report", "enter", "enter", "next week", "enter", "enter", "enter")

	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.status, "invalid date")
	assert.Zero(t, m.store.Len())
}

func TestEditForm_CyclesPriority(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = seed(t, m, "Buy milk")

	m = press(t, m, "e")
	require.NotNil(t, m.form)
	assert.Equal(t, "Buy milk", m.input.Value())

	m = press(t, m, " now", "enter", "enter", "enter", "enter", "ctrl+n", "enter")

	assert.Equal(t, modeList, m.mode)
	got := m.store.Tasks()[0]
	assert.Equal(t, "Buy milk now", got.Title)
	assert.Equal(t, task.PriorityLow, got.Priority)
}

func TestToggleAndDelete(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = seed(t, m, "Buy milk")

	m = press(t, m, " ")
	assert.True(t, m.store.Tasks()[0].Completed)

	m = press(t, m, "d")
	assert.Equal(t, modeConfirmDelete, m.mode)
	m = press(t, m, "n")
	assert.Equal(t, 1, m.store.Len())

	m = press(t, m, "d", "y")
	assert.Equal(t, modeList, m.mode)
	assert.Zero(t, m.store.Len())
	assert.Empty(t, m.tasks)
}

func TestCursorMovement(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = seed(t, m, "one", "two", "three")

	m = press(t, m, "j", "j", "j")
	assert.Equal(t, 2, m.cursor)
	m = press(t, m, "k", "k", "k")
	assert.Equal(t, 0, m.cursor)
}

func TestSearch(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = seed(t, m, "Buy milk", "Write report")

	m = press(t, m, "/", "MILK")
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "Buy milk", m.tasks[0].Title)

	m = press(t, m, "enter")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "MILK", m.filter.Query)
	assert.Len(t, m.tasks, 1)

	m = press(t, m, "/", "esc")
	assert.Empty(t, m.filter.Query)
	assert.Len(t, m.tasks, 2)
}

func TestCycleStatusAndSort(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = seed(t, m, "one", "two")
	_, err := m.store.Toggle(m.tasks[0].ID)
	require.NoError(t, err)

	m = press(t, m, "f")
	assert.Equal(t, task.StatusActive, m.filter.Status)
	assert.Len(t, m.tasks, 1)
	m = press(t, m, "f")
	assert.Equal(t, task.StatusCompleted, m.filter.Status)
	assert.Len(t, m.tasks, 1)

	m = press(t, m, "s")
	assert.Equal(t, task.SortDueDate, m.sortKey)

	m = press(t, m, "x")
	assert.Equal(t, task.StatusAll, m.filter.Status)
	assert.Len(t, m.tasks, 2)
}

func TestRemind(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = seed(t, m, "Call mom")

	m = press(t, m, "r", "2000-01-01 10:00", "enter")
	assert.Equal(t, modeRemind, m.mode)
	assert.Equal(t, "Reminder must be in the future", m.status)
	assert.Nil(t, m.store.Tasks()[0].Reminder)

	m = press(t, m, "esc", "r", "30m", "enter")
	assert.Equal(t, modeList, m.mode)
	r := m.store.Tasks()[0].Reminder
	require.NotNil(t, r)
	assert.True(t, r.Equal(now.Add(30*time.Minute)))

	m = press(t, m, "R")
	assert.Nil(t, m.store.Tasks()[0].Reminder)
}

func TestReminderMessageRingsBell(t *testing.T) {
	m, _, bell := newTestModel(t)
	next, cmd := m.Update(reminderMsg(reminder.Notification{TaskID: "x", Title: "Call mom"}))
	m = next.(Model)

	assert.Contains(t, m.status, "Reminder: Call mom")
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "\a", bell.String())
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	m, kv, _ := newTestModel(t)
	data, err := snapshot.Encode([]task.Task{{ID: "ext", Title: "From elsewhere", Priority: task.PriorityHigh, CreatedAt: now}})
	require.NoError(t, err)
	require.NoError(t, kv.Put(snapshot.Key, data))

	next, _ := m.Update(reloadMsg{})
	m = next.(Model)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "From elsewhere", m.tasks[0].Title)
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "No tasks yet")

	_, err := m.store.Add(task.Input{Title: "Pay rent", Category: "شخصي", DueDate: "2024-03-01", Priority: task.PriorityHigh})
	require.NoError(t, err)
	m.refresh()

	v := m.View()
	assert.Contains(t, v, "Pay rent")
	assert.Contains(t, v, "#شخصي")
	assert.Contains(t, v, "overdue")
	assert.Contains(t, v, "Total 1")

	m = press(t, m, "f", "f")
	assert.Contains(t, m.View(), "No tasks match the current filter.")
}

func TestBridgeDropsBeforeAttach(t *testing.T) {
	b := NewBridge()
	err := b.Notifier().Notify(reminder.Notification{Title: "x"})
	assert.Error(t, err)
}

func TestCycleValue(t *testing.T) {
	opts := []string{"", "a", "b"}
	assert.Equal(t, "a", cycleValue(opts, "", 1))
	assert.Equal(t, "", cycleValue(opts, "b", 1))
	assert.Equal(t, "b", cycleValue(opts, "", -1))
	assert.Equal(t, "", cycleValue(opts, "zzz", 1))
}
