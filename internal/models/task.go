package models

import (
	"math"
	"strings"
	"time"
)

// Task is a content production item on the board.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	DueDate      *string      `json:"dueDate"`
	EstimateMins float64      `json:"estimateMins"`
}

// TaskProgress counts published tasks against the whole board.
type TaskProgress struct {
	Completed   int `json:"completed"`
	Total       int `json:"total"`
	ProgressPct int `json:"progressPct"`
}

// Due parses DueDate. ok is false when the task has no usable date.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	return ParseDueDate(*t.DueDate)
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate accepts RFC 3339 timestamps, datetime-local values and plain dates.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeDueDate returns the RFC 3339 UTC form of s, or nil when s is
// empty or unparsable.
func NormalizeDueDate(s *string) *string {
	if s == nil {
		return nil
	}
	t, ok := ParseDueDate(*s)
	if !ok {
		return nil
	}
	out := t.Format(time.RFC3339)
	return &out
}

// NormalizeEstimate clamps negative and non-finite estimates to zero.
func NormalizeEstimate(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
