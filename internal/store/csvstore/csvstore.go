// Package csvstore converts task lists to and from CSV for spreadsheets.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/todo/internal/model"
)

var header = []string{"text", "done"}

// Export writes a header row and one row per task.
func Export(w io.Writer, items []model.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, it := range items {
		if err := cw.Write([]string{it.Text, strconv.FormatBool(it.Done)}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Import reads rows by header name. Extra columns are ignored and rows with
// blank text are skipped.
func Import(r io.Reader) ([]model.Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	textCol, doneCol := -1, -1
	for i, h := range head {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "text":
			textCol = i
		case "done", "completed":
			doneCol = i
		}
	}
	if textCol < 0 {
		return nil, fmt.Errorf("missing %q column", "text")
	}

	items := []model.Task{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		text := field(rec, textCol)
		if strings.TrimSpace(text) == "" {
			continue
		}
		items = append(items, model.Task{Text: strings.TrimSpace(text), Done: truthy(field(rec, doneCol))})
	}
	return items, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "x":
		return true
	}
	return false
}
