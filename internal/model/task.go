package model

import (
	"fmt"
	"strings"
)

// Task is the domain model for a todo entry.
// Position in the list is its only identity.
type Task struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Label renders the task the way plain listings show it.
func (t Task) Label() string {
	if t.Done {
		return "[x] " + t.Text
	}
	return "[ ] " + t.Text
}

// Filter selects which tasks are visible.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next cycles All -> Active -> Completed -> All.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// ParseFilter accepts the filter names case-insensitively, plus a few aliases.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active", "pending", "todo":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}
