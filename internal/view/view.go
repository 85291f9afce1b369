// Package view derives the visible rows from a task list. Everything here is
// a pure function of its inputs.
package view

import (
	"strings"

	"github.com/idilsaglam/todo/internal/model"
)

// Row is a visible task plus its position in the full list, which is what
// store operations take.
type Row struct {
	Index int
	Task  model.Task
}

// Options narrows the visible set.
type Options struct {
	Filter model.Filter
	Query  string // case-insensitive substring of the text
}

// Visible keeps the tasks matching filter, in list order.
func Visible(list []model.Task, filter model.Filter) []Row {
	return Apply(list, Options{Filter: filter})
}

// Apply keeps the tasks matching both the filter and the query, in list order.
func Apply(list []model.Task, opt Options) []Row {
	q := strings.ToLower(strings.TrimSpace(opt.Query))
	rows := make([]Row, 0, len(list))
	for i, it := range list {
		if !Match(it, opt.Filter) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Text), q) {
			continue
		}
		rows = append(rows, Row{Index: i, Task: it})
	}
	return rows
}

// Match reports whether a single task passes the filter.
func Match(it model.Task, filter model.Filter) bool {
	switch filter {
	case model.FilterActive:
		return !it.Done
	case model.FilterCompleted:
		return it.Done
	default:
		return true
	}
}

// Group splits rows into pending and done, keeping order within each.
func Group(rows []Row) (pending, done []Row) {
	for _, r := range rows {
		if r.Task.Done {
			done = append(done, r)
		} else {
			pending = append(pending, r)
		}
	}
	return pending, done
}

// Texts is a convenience for listings and tests.
func Texts(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Task.Text
	}
	return out
}
