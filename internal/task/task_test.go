package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	got := New(Input{Title: "Buy milk", Category: "تسوق", Priority: PriorityLow}, now)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.False(t, got.Completed)
	assert.Equal(t, now, got.CreatedAt)
	assert.Nil(t, got.Reminder)
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := New(Input{Title: "x"}, now).ID
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestPatchApply(t *testing.T) {
	base := Task{ID: "a", Title: "old", Description: "keep", Priority: PriorityLow, CreatedAt: now}
	title := "new"
	done := true
	prio := PriorityHigh

	got := Patch{Title: &title, Completed: &done, Priority: &prio}.Apply(base)

	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "keep", got.Description)
	assert.True(t, got.Completed)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, "old", base.Title)
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	s := ""
	assert.False(t, Patch{DueDate: &s}.Empty())
}

func TestClone_DoesNotAliasReminder(t *testing.T) {
	r := now.Add(time.Hour)
	orig := Task{ID: "a", Reminder: &r}
	c := orig.Clone()
	*c.Reminder = now

	assert.Equal(t, now.Add(time.Hour), *orig.Reminder)
}

func TestOverdue(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past due", Task{DueDate: "2024-03-01"}, true},
		{"future due", Task{DueDate: "2024-04-01"}, false},
		{"completed", Task{DueDate: "2024-03-01", Completed: true}, false},
		{"no due", Task{}, false},
		{"garbage due", Task{DueDate: "soon"}, false},
		{"rfc3339 due", Task{DueDate: "2024-03-15T11:00:00Z"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Overdue(now))
		})
	}
}

func TestNormalizeDue(t *testing.T) {
	v, err := NormalizeDue(" 2024-01-01 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", v)

	v, err = NormalizeDue("")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = NormalizeDue("01/02/2024")
	assert.Error(t, err)
}

func TestParseReminder(t *testing.T) {
	loc := time.UTC

	got, err := ParseReminder("2024-03-15 18:30", now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC), got)

	got, err = ParseReminder("2024-03-16T09:00:00+02:00", now, loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 16, 7, 0, 0, 0, time.UTC)))

	got, err = ParseReminder("90m", now, loc)
	require.NoError(t, err)
	assert.Equal(t, now.Add(90*time.Minute), got)

	_, err = ParseReminder("", now, loc)
	assert.Error(t, err)
	_, err = ParseReminder("tomorrow-ish", now, loc)
	assert.Error(t, err)
}
