package task

import (
	"math"
	"time"
)

type Stats struct {
	Total          int              `json:"total" yaml:"total"`
	Completed      int              `json:"completed" yaml:"completed"`
	Active         int              `json:"active" yaml:"active"`
	Overdue        int              `json:"overdue" yaml:"overdue"`
	ByPriority     map[Priority]int `json:"byPriority" yaml:"byPriority"`
	ByCategory     map[string]int   `json:"byCategory" yaml:"byCategory"`
	CompletionRate int              `json:"completionRate" yaml:"completionRate"`
}

// ComputeStats derives aggregate counts from a snapshot. ByPriority always
// carries every known priority; ByCategory only the categories in use.
func ComputeStats(tasks []Task, now time.Time) Stats {
	s := Stats{
		Total:      len(tasks),
		ByPriority: map[Priority]int{PriorityHigh: 0, PriorityMedium: 0, PriorityLow: 0},
		ByCategory: map[string]int{},
	}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
		if t.Overdue(now) {
			s.Overdue++
		}
		if _, ok := s.ByPriority[t.Priority]; ok {
			s.ByPriority[t.Priority]++
		}
		s.ByCategory[t.Category]++
	}
	s.Active = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
