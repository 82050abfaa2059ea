package ui

import (
	"fmt"
	"strings"

	"mahami/internal/task"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldCategory
	fieldPriority
	fieldCount
)

// formState backs both the add and the edit form. taskID is empty when adding.
type formState struct {
	taskID string
	values [fieldCount]string
	index  int
}

func formLabels() []string {
	return []string{"title", "description", "due date (YYYY-MM-DD)", "category", "priority"}
}

func newAddForm(defaultPriority task.Priority) *formState {
	f := &formState{}
	f.values[fieldPriority] = string(defaultPriority)
	return f
}

func newEditForm(t task.Task) *formState {
	f := &formState{taskID: t.ID}
	f.values[fieldTitle] = t.Title
	f.values[fieldDescription] = t.Description
	f.values[fieldDue] = t.DueDate
	f.values[fieldCategory] = t.Category
	f.values[fieldPriority] = string(t.Priority)
	return f
}

func (f formState) editing() bool { return f.taskID != "" }

func (f formState) currentLabel() string {
	return formLabels()[f.index]
}

func (f formState) currentValue() string {
	return f.values[f.index]
}

func (f *formState) setCurrentValue(v string) {
	f.values[f.index] = v
}

func (f *formState) move(delta int) {
	f.index = wrapIndex(f.index+delta, fieldCount)
}

// hasChoices reports whether the current field cycles through fixed options.
func (f formState) hasChoices() bool {
	return f.index == fieldCategory || f.index == fieldPriority
}

// cycle steps the current choice field through its options. The category
// list starts with the empty (uncategorised) choice.
func (f *formState) cycle(delta int, categories []string) {
	var opts []string
	switch f.index {
	case fieldCategory:
		opts = append([]string{""}, categories...)
	case fieldPriority:
		for _, p := range task.Priorities {
			opts = append(opts, string(p))
		}
	default:
		return
	}
	f.values[f.index] = cycleValue(opts, f.values[f.index], delta)
}

// input validates the form for a new task.
func (f formState) input() (task.Input, error) {
	title := strings.TrimSpace(f.values[fieldTitle])
	if title == "" {
		return task.Input{}, fmt.Errorf("title cannot be empty")
	}
	due, err := task.NormalizeDue(f.values[fieldDue])
	if err != nil {
		return task.Input{}, err
	}
	prio, err := task.ParsePriority(f.values[fieldPriority])
	if err != nil {
		return task.Input{}, err
	}
	return task.Input{
		Title:       title,
		Description: strings.TrimSpace(f.values[fieldDescription]),
		DueDate:     due,
		Category:    strings.TrimSpace(f.values[fieldCategory]),
		Priority:    prio,
	}, nil
}

// patch validates the form for an edit. Every field is replaced.
func (f formState) patch() (task.Patch, error) {
	in, err := f.input()
	if err != nil {
		return task.Patch{}, err
	}
	return task.Patch{
		Title:       &in.Title,
		Description: &in.Description,
		DueDate:     &in.DueDate,
		Category:    &in.Category,
		Priority:    &in.Priority,
	}, nil
}

func cycleValue(opts []string, cur string, delta int) string {
	if len(opts) == 0 {
		return cur
	}
	idx := -1
	for i, o := range opts {
		if o == cur {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			return opts[len(opts)-1]
		}
		return opts[0]
	}
	return opts[wrapIndex(idx+delta, len(opts))]
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
