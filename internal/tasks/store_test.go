package tasks

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/model"
)

// memBackend keeps the last saved list in memory.
type memBackend struct {
	saved   []model.Task
	saves   int
	loadErr error
	saveErr error
}

func (m *memBackend) Load() ([]model.Task, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]model.Task, len(m.saved))
	copy(out, m.saved)
	return out, nil
}

func (m *memBackend) Save(items []model.Task) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = make([]model.Task, len(items))
	copy(m.saved, items)
	return nil
}

func newStore(t *testing.T, texts ...string) (*Store, *memBackend) {
	t.Helper()
	b := &memBackend{}
	s := New(b, nil)
	for _, txt := range texts {
		if err := s.Add(txt); err != nil {
			t.Fatalf("Add(%q): %v", txt, err)
		}
	}
	return s, b
}

func TestAddAppendsPendingTask(t *testing.T) {
	for _, text := range []string{"buy milk", "x", "  padded  ", "buy milk"} {
		s, b := newStore(t, "first", "second")
		before := s.Len()
		if err := s.Add(text); err != nil {
			t.Fatalf("Add(%q): %v", text, err)
		}
		if s.Len() != before+1 {
			t.Fatalf("Len: got %d, want %d", s.Len(), before+1)
		}
		got, _ := s.Get(s.Len() - 1)
		if got.Done {
			t.Errorf("new task should not be done")
		}
		if got.Text == "" || got.Text[0] == ' ' {
			t.Errorf("text not trimmed: %q", got.Text)
		}
		if !reflect.DeepEqual(b.saved, s.Tasks()) {
			t.Errorf("backend not in sync after add")
		}
	}
}

func TestAddRejectsEmpty(t *testing.T) {
	s, b := newStore(t, "one")
	saves := b.saves
	for _, text := range []string{"", "   ", "\t\n"} {
		err := s.Add(text)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Add(%q): got %v, want *ValidationError", text, err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("errors.Is(err, ErrValidation) = false")
		}
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
	if b.saves != saves {
		t.Errorf("rejected add should not write")
	}
}

func TestEdit(t *testing.T) {
	s, _ := newStore(t, "a", "b")
	if err := s.Toggle(1); err != nil {
		t.Fatal(err)
	}
	if err := s.Edit(1, "bee"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got, _ := s.Get(1)
	if got != (model.Task{Text: "bee", Done: true}) {
		t.Errorf("Edit: got %+v", got)
	}

	if err := s.Edit(1, " "); !errors.Is(err, ErrValidation) {
		t.Errorf("Edit empty: got %v, want validation error", err)
	}
	if err := s.Edit(2, "c"); !errors.Is(err, ErrIndex) {
		t.Errorf("Edit out of range: got %v, want index error", err)
	}
	if got, _ := s.Get(1); got.Text != "bee" {
		t.Errorf("failed edits changed the task: %+v", got)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	s, _ := newStore(t, "a", "b", "c")
	for i := 0; i < s.Len(); i++ {
		before, _ := s.Get(i)
		if err := s.Toggle(i); err != nil {
			t.Fatal(err)
		}
		mid, _ := s.Get(i)
		if mid.Done == before.Done {
			t.Errorf("Toggle(%d) did not flip", i)
		}
		if err := s.Toggle(i); err != nil {
			t.Fatal(err)
		}
		after, _ := s.Get(i)
		if after != before {
			t.Errorf("Toggle twice at %d: got %+v, want %+v", i, after, before)
		}
	}
}

func TestDeleteShifts(t *testing.T) {
	texts := []string{"a", "b", "c", "d"}
	for i := range texts {
		s, _ := newStore(t, texts...)
		before := s.Tasks()
		if err := s.Delete(i); err != nil {
			t.Fatalf("Delete(%d): %v", i, err)
		}
		after := s.Tasks()
		if len(after) != len(before)-1 {
			t.Fatalf("Len after delete: got %d, want %d", len(after), len(before)-1)
		}
		want := append(append([]model.Task{}, before[:i]...), before[i+1:]...)
		if !reflect.DeepEqual(after, want) {
			t.Errorf("Delete(%d): got %v, want %v", i, after, want)
		}
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	s, _ := newStore(t, "a", "b")
	for _, i := range []int{5, 2, -1} {
		err := s.Delete(i)
		var ie *IndexError
		if !errors.As(err, &ie) {
			t.Fatalf("Delete(%d): got %v, want *IndexError", i, err)
		}
		if ie.Len != 2 || ie.Index != i {
			t.Errorf("IndexError: got %+v", ie)
		}
	}
	if s.Len() != 2 {
		t.Errorf("Len: got %d, want 2", s.Len())
	}
	if err := s.Toggle(2); !errors.Is(err, ErrIndex) {
		t.Errorf("Toggle out of range: got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, b := newStore(t, "a", "b", "a", "c")
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	fresh := New(b, nil)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(fresh.Tasks(), s.Tasks()) {
		t.Errorf("round trip: got %v, want %v", fresh.Tasks(), s.Tasks())
	}
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	b := &memBackend{saved: []model.Task{{Text: "x"}}, loadErr: errors.New("json unmarshal: bad")}
	s := New(b, nil)
	err := s.Load()
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("Load: got %v, want storage error", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
	if err := s.Add("still usable"); err != nil {
		t.Fatalf("Add after failed load: %v", err)
	}
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	s, b := newStore(t, "a")
	b.saveErr = errors.New("disk full")

	err := s.Add("b")
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("Add: got %v, want *StorageError", err)
	}
	if se.Op != "save" {
		t.Errorf("Op: got %q, want save", se.Op)
	}
	if s.Len() != 2 {
		t.Errorf("in-memory list should keep the add, Len = %d", s.Len())
	}
	if len(b.saved) != 1 {
		t.Errorf("backend should still hold the previous list, got %v", b.saved)
	}

	b.saveErr = nil
	if err := s.Save(); err != nil {
		t.Fatalf("retry Save: %v", err)
	}
	if len(b.saved) != 2 {
		t.Errorf("retry did not persist, got %v", b.saved)
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"b", "c", "a"}},
		{2, 0, []string{"c", "a", "b"}},
		{1, 1, []string{"a", "b", "c"}},
		{1, 2, []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		s, _ := newStore(t, "a", "b", "c")
		if err := s.Move(tt.from, tt.to); err != nil {
			t.Fatalf("Move(%d,%d): %v", tt.from, tt.to, err)
		}
		var got []string
		for _, it := range s.Tasks() {
			got = append(got, it.Text)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Move(%d,%d): got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}

	s, _ := newStore(t, "a")
	if err := s.Move(0, 1); !errors.Is(err, ErrIndex) {
		t.Errorf("Move out of range: got %v", err)
	}
}

func TestClearCompleted(t *testing.T) {
	s, b := newStore(t, "a", "b", "c")
	_ = s.Toggle(0)
	_ = s.Toggle(2)
	n, err := s.ClearCompleted()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("removed: got %d, want 2", n)
	}
	if !reflect.DeepEqual(b.saved, []model.Task{{Text: "b"}}) {
		t.Errorf("saved: got %v", b.saved)
	}

	saves := b.saves
	if n, _ := s.ClearCompleted(); n != 0 || b.saves != saves {
		t.Errorf("nothing to clear should not write")
	}
}

func TestReplace(t *testing.T) {
	s, _ := newStore(t, "old")
	err := s.Replace([]model.Task{{Text: "ok"}, {Text: " "}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Replace with empty text: got %v", err)
	}
	if got, _ := s.Get(0); got.Text != "old" {
		t.Errorf("failed replace changed the list")
	}

	if err := s.Replace([]model.Task{{Text: " x ", Done: true}, {Text: "y"}}); err != nil {
		t.Fatal(err)
	}
	want := []model.Task{{Text: "x", Done: true}, {Text: "y"}}
	if !reflect.DeepEqual(s.Tasks(), want) {
		t.Errorf("Replace: got %v, want %v", s.Tasks(), want)
	}
	if d, p := s.Stats(); d != 1 || p != 1 {
		t.Errorf("Stats: got %d/%d, want 1/1", d, p)
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	s, _ := newStore(t, "a")
	list := s.Tasks()
	list[0].Text = "mutated"
	if got, _ := s.Get(0); got.Text != "a" {
		t.Errorf("Tasks leaked internal slice")
	}
}

// fileBackend reports a location like the JSON file backend does.
type fileBackend struct {
	memBackend
	path string
}

func (f *fileBackend) Location() string { return f.path }

func TestStorageErrorCarriesPath(t *testing.T) {
	b := &fileBackend{path: "/data/tasks.json"}
	b.loadErr = errors.New("json unmarshal: bad")
	s := New(b, nil)

	var se *StorageError
	if err := s.Load(); !errors.As(err, &se) {
		t.Fatalf("Load: got %v, want *StorageError", err)
	}
	if se.Path != "/data/tasks.json" || se.Op != "load" {
		t.Errorf("StorageError: got %+v", se)
	}
	if !strings.Contains(se.Error(), "/data/tasks.json") {
		t.Errorf("Error() should name the file: %q", se.Error())
	}

	b.saveErr = errors.New("disk full")
	if err := s.Add("x"); !errors.As(err, &se) || se.Path != "/data/tasks.json" || se.Op != "save" {
		t.Errorf("save StorageError: got %v", err)
	}

	// Backends without a location leave Path empty.
	s2 := New(&memBackend{saveErr: errors.New("disk full")}, nil)
	if err := s2.Add("x"); !errors.As(err, &se) || se.Path != "" {
		t.Errorf("memBackend StorageError: got %+v", se)
	}
}

func TestLoadFailureIsNotLoggedAsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	s := New(&memBackend{loadErr: errors.New("json unmarshal: bad")}, logger)
	if err := s.Load(); err == nil {
		t.Fatal("expected load error")
	}
	if buf.Len() != 0 {
		t.Errorf("load failure logged at warn level: %q", buf.String())
	}
}
