package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/todo/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; one process owns the file.

const DefaultFileName = "tasks.json"

const schemaURL = "mem://todo/tasks.schema.json"

const schemaDoc = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text"],
    "properties": {
      "text": {"type": "string", "minLength": 1, "pattern": "\\S"},
      "done": {"type": "boolean"}
    }
  }
}`

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(schemaDoc)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// File stores the task list as a JSON array at Path.
type File struct {
	Path string
}

// New returns a File for path, or for ./tasks.json when path is empty.
func New(path string) (*File, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	return &File{Path: path}, nil
}

// Location is the file path, reported in storage errors.
func (f *File) Location() string { return f.Path }

// Load reads the file. A missing file is an empty list.
func (f *File) Load() ([]model.Task, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return decode(b)
}

// Save overwrites the file. The new content goes to a temp file first and is
// renamed over the old one, so a failed write leaves the previous file intact.
func (f *File) Save(items []model.Task) error {
	b, err := encode(items)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Export writes items as an indented JSON array.
func Export(w io.Writer, items []model.Task) error {
	b, err := encode(items)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Import reads a JSON array in the same format the store writes.
func Import(r io.Reader) ([]model.Task, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return decode(b)
}

func encode(items []model.Task) ([]byte, error) {
	if items == nil {
		items = []model.Task{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}

func decode(b []byte) ([]model.Task, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return []model.Task{}, nil
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	sch, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid task file: %s", schemaMessage(err))
	}
	var items []model.Task
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.Task{}
	}
	return items, nil
}

// schemaMessage flattens a schema error to its first leaf cause.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
