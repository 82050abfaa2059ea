package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities is the display order, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Weight orders priorities for sorting. Unknown values weigh 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Weight() > 0
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q (want low, medium or high)", v)
	}
	return p, nil
}

type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description,omitempty"`
	DueDate     string     `json:"dueDate" yaml:"dueDate,omitempty"`
	Category    string     `json:"category" yaml:"category"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	Reminder    *time.Time `json:"reminder,omitempty" yaml:"reminder,omitempty"`
}

// Input is what a creation form supplies. The store fills in the rest.
type Input struct {
	Title       string
	Description string
	DueDate     string
	Category    string
	Priority    Priority
}

// Patch holds the fields an edit replaces. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *string
	Category    *string
	Priority    *Priority
	Completed   *bool
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Category == nil && p.Priority == nil && p.Completed == nil
}

// Apply returns a copy of t with the patch merged in.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// New builds a fresh, uncompleted task from form input.
func New(in Input, now time.Time) Task {
	return Task{
		ID:          NewID(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Category:    in.Category,
		Priority:    in.Priority,
		CreatedAt:   now.UTC(),
	}
}

func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy so callers cannot alias the reminder pointer.
func (t Task) Clone() Task {
	if t.Reminder != nil {
		r := *t.Reminder
		t.Reminder = &r
	}
	return t
}

// Due returns the parsed due date. Unset or unparseable dates report false.
func (t Task) Due() (time.Time, bool) {
	if strings.TrimSpace(t.DueDate) == "" {
		return time.Time{}, false
	}
	d, err := ParseDue(t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (t Task) Overdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	return ok && due.Before(now)
}

func (t Task) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

func CloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
