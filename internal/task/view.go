package task

import (
	"fmt"
	"sort"
	"strings"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

var Statuses = []Status{StatusAll, StatusActive, StatusCompleted}

func ParseStatus(v string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(v))); s {
	case "":
		return StatusAll, nil
	case StatusAll, StatusActive, StatusCompleted:
		return s, nil
	default:
		return "", fmt.Errorf("unknown status %q (want all, active or completed)", v)
	}
}

type SortKey string

const (
	SortDueDate   SortKey = "dueDate"
	SortPriority  SortKey = "priority"
	SortCreatedAt SortKey = "createdAt"
)

var SortKeys = []SortKey{SortCreatedAt, SortDueDate, SortPriority}

func ParseSortKey(v string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "createdat", "created":
		return SortCreatedAt, nil
	case "duedate", "due":
		return SortDueDate, nil
	case "priority":
		return SortPriority, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want createdAt, dueDate or priority)", v)
	}
}

// Filter conditions are AND-combined. Zero values match everything.
type Filter struct {
	Query    string
	Category string
	Status   Status
}

func (f Filter) Match(t Task) bool {
	if q := strings.ToLower(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	switch f.Status {
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	}
	return true
}

func Apply(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a stably sorted copy of tasks.
func Sort(tasks []Task, key SortKey) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], key)
	})
	return out
}

func less(a, b Task, key SortKey) bool {
	switch key {
	case SortDueDate:
		return compareDue(a, b)
	case SortPriority:
		return a.Priority.Weight() > b.Priority.Weight()
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}

func compareDue(a, b Task) bool {
	ad, aok := a.Due()
	bd, bok := b.Due()
	if !aok {
		return false // missing sorts last
	}
	if !bok {
		return true
	}
	return ad.Before(bd)
}

// View filters then sorts, leaving tasks untouched.
func View(tasks []Task, f Filter, key SortKey) []Task {
	return Sort(Apply(tasks, f), key)
}
