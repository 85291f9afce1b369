package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo/internal/model"
)

// Output streams; swapped in tests.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func OK(msg string)   { fmt.Fprintln(Stdout, current.Success.Render(current.SymDone+" "+msg)) }
func Warn(msg string) { fmt.Fprintln(Stderr, current.Pending.Render("! "+msg)) }
func Fail(msg string) { fmt.Fprintln(Stderr, current.Error.Render("✖ "+msg)) }

// Hint prints a muted follow-up line under an error.
func Hint(msg string) { fmt.Fprintln(Stderr, current.Muted.Render("Hint: "+msg)) }

// TaskLine renders one task as "[x] text" or "[ ] text" in theme colors.
func TaskLine(it model.Task) string {
	if it.Done {
		return current.Success.Render(current.BoxChecked) + " " + current.Done.Render(it.Text)
	}
	return current.Muted.Render(current.BoxUnchecked) + " " + it.Text
}

// ProgressBar renders a Unicode progress bar with counts.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// PanelString frames inner in the theme border.
func PanelString(inner string) string {
	return lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel draws a framed box around lines.
func Panel(lines []string) {
	fmt.Fprintln(Stdout, PanelString(strings.Join(lines, "\n")))
}
