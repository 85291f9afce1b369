// Package tasks owns the in-memory task list and writes it through to a
// backend after every mutation.
package tasks

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/model"
)

// Backend persists the whole list at once.
type Backend interface {
	Load() ([]model.Task, error)
	Save([]model.Task) error
}

// locator is implemented by backends that know where they keep data.
type locator interface {
	Location() string
}

// Store is the single owner of the task list. Not safe for concurrent use;
// every caller runs on the UI goroutine.
type Store struct {
	backend Backend
	logger  *log.Logger
	items   []model.Task
}

// New returns an empty store. Call Load to populate it.
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{backend: backend, logger: logger, items: []model.Task{}}
}

// Load replaces the list with the backend's contents. On failure the list
// is emptied and a *StorageError is returned; callers keep running.
func (s *Store) Load() error {
	items, err := s.backend.Load()
	if err != nil {
		s.items = []model.Task{}
		// Callers decide how loudly to report this.
		s.logger.Debug("load failed, starting empty", "err", err)
		return s.storageErr("load", err)
	}
	if items == nil {
		items = []model.Task{}
	}
	s.items = items
	s.logger.Debug("loaded", "tasks", len(items))
	return nil
}

// Save writes the full list.
func (s *Store) Save() error {
	if err := s.backend.Save(s.Tasks()); err != nil {
		s.logger.Debug("save failed", "err", err)
		return s.storageErr("save", err)
	}
	return nil
}

// Tasks returns a copy of the list.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int { return len(s.items) }

// Get returns the task at i.
func (s *Store) Get(i int) (model.Task, error) {
	if err := s.check(i); err != nil {
		return model.Task{}, err
	}
	return s.items[i], nil
}

// Stats counts done and pending tasks.
func (s *Store) Stats() (done, pending int) {
	for _, it := range s.items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

// Add appends a new pending task.
func (s *Store) Add(text string) error {
	text, err := cleanText(text)
	if err != nil {
		return err
	}
	s.items = append(s.items, model.Task{Text: text})
	s.logger.Debug("add", "index", len(s.items)-1)
	return s.Save()
}

// Edit replaces the text at i, keeping its done flag.
func (s *Store) Edit(i int, text string) error {
	if err := s.check(i); err != nil {
		return err
	}
	text, err := cleanText(text)
	if err != nil {
		return err
	}
	s.items[i].Text = text
	s.logger.Debug("edit", "index", i)
	return s.Save()
}

// Toggle flips the done flag at i.
func (s *Store) Toggle(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.items[i].Done = !s.items[i].Done
	s.logger.Debug("toggle", "index", i, "done", s.items[i].Done)
	return s.Save()
}

// Delete removes the task at i; later tasks shift down by one.
func (s *Store) Delete(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.logger.Debug("delete", "index", i)
	return s.Save()
}

// Move takes the task at from and reinserts it at to.
func (s *Store) Move(from, to int) error {
	if err := s.check(from); err != nil {
		return err
	}
	if err := s.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	it := s.items[from]
	s.items = slices.Delete(s.items, from, from+1)
	s.items = slices.Insert(s.items, to, it)
	s.logger.Debug("move", "from", from, "to", to)
	return s.Save()
}

// ClearCompleted drops every done task with a single write.
func (s *Store) ClearCompleted() (int, error) {
	kept := make([]model.Task, 0, len(s.items))
	for _, it := range s.items {
		if !it.Done {
			kept = append(kept, it)
		}
	}
	removed := len(s.items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	s.items = kept
	s.logger.Debug("clear completed", "removed", removed)
	return removed, s.Save()
}

// Replace swaps in a whole new list, e.g. from an import. Nothing changes
// unless every task has non-empty text.
func (s *Store) Replace(items []model.Task) error {
	next := make([]model.Task, 0, len(items))
	for i, it := range items {
		text, err := cleanText(it.Text)
		if err != nil {
			return &ValidationError{Field: "task " + strconv.Itoa(i+1), Reason: "text is empty"}
		}
		next = append(next, model.Task{Text: text, Done: it.Done})
	}
	s.items = next
	s.logger.Debug("replace", "tasks", len(next))
	return s.Save()
}

func (s *Store) storageErr(op string, err error) error {
	se := &StorageError{Op: op, Err: err}
	if l, ok := s.backend.(locator); ok {
		se.Path = l.Location()
	}
	return se
}

func (s *Store) check(i int) error {
	if i < 0 || i >= len(s.items) {
		return &IndexError{Index: i, Len: len(s.items)}
	}
	return nil
}

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Field: "text", Reason: "text is empty"}
	}
	return text, nil
}
