package jsonstore

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/idilsaglam/todo/internal/model"
)

func TestLoadMissingFile(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "tasks.json")}
	items, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("Load: got %v, want empty list", items)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	f := &File{Path: path}
	want := []model.Task{{Text: "buy milk", Done: true}, {Text: "write spec"}, {Text: "héllo ✓"}}
	if err := f.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	f := &File{Path: path}
	if err := f.Save([]model.Task{{Text: "a"}}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n  {\n    \"text\": \"a\",\n    \"done\": false\n  }\n]\n"
	if string(b) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", b, want)
	}

	if err := f.Save(nil); err != nil {
		t.Fatal(err)
	}
	b, _ = os.ReadFile(path)
	if strings.TrimSpace(string(b)) != "[]" {
		t.Errorf("empty list should be written as [], got %q", b)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"not json", "{oops", "json unmarshal"},
		{"object not array", `{"text":"a"}`, "invalid task file"},
		{"wrong field type", `[{"text":"a","done":"yes"}]`, "invalid task file"},
		{"missing text", `[{"done":true}]`, "invalid task file"},
		{"empty text", `[{"text":""}]`, "invalid task file"},
		{"blank text", `[{"text":"ok"},{"text":"   ","done":true}]`, "/1/text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := (&File{Path: path}).Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := (&File{Path: path}).Load()
	if err != nil || len(items) != 0 {
		t.Errorf("Load empty file: got %v, %v", items, err)
	}
}

func TestSaveFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	f := &File{Path: path}
	if err := f.Save([]model.Task{{Text: "keep me"}}); err != nil {
		t.Fatal(err)
	}
	// A directory where the temp file should go makes the write fail.
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := f.Save([]model.Task{{Text: "lost"}}); err == nil {
		t.Fatal("expected save error")
	}
	got, err := f.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "keep me" {
		t.Errorf("previous file changed: %v", got)
	}
}

func TestExportImport(t *testing.T) {
	items := []model.Task{{Text: "a", Done: true}, {Text: "b"}}
	var buf bytes.Buffer
	if err := Export(&buf, items); err != nil {
		t.Fatal(err)
	}
	got, err := Import(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Errorf("got %v, want %v", got, items)
	}
	if _, err := Import(strings.NewReader(`[1,2]`)); err == nil {
		t.Error("expected error for non-object items")
	}
}

func TestNewDefaultsToWorkingDir(t *testing.T) {
	f, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(f.Path) != DefaultFileName || !filepath.IsAbs(f.Path) {
		t.Errorf("default path: %s", f.Path)
	}
}

func TestLocation(t *testing.T) {
	f := &File{Path: "/tmp/x/tasks.json"}
	if f.Location() != f.Path {
		t.Errorf("Location: got %q, want %q", f.Location(), f.Path)
	}
}
