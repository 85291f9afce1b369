package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
}

var current = themeFor("classic")

// SetTheme switches the theme; unknown names fall back to classic.
func SetTheme(name string) { current = themeFor(name) }

// Current exposes what renderers need.
func Current() Theme { return current }

// NextTheme cycles classic -> dark -> mono -> classic.
func NextTheme(name string) string {
	switch strings.ToLower(name) {
	case "classic":
		return "dark"
	case "dark":
		return "mono"
	default:
		return "classic"
	}
}

func themeFor(name string) Theme {
	plain := lipgloss.NewStyle()
	switch strings.ToLower(name) {
	case "dark":
		return Theme{
			Name:        "dark",
			Title:       plain.Bold(true).Foreground(lipgloss.Color("#e6e6e6")),
			Muted:       plain.Foreground(lipgloss.Color("#7a7f8a")),
			Accent:      plain.Foreground(lipgloss.Color("#5e81ac")),
			Success:     plain.Foreground(lipgloss.Color("#a3be8c")),
			Error:       plain.Foreground(lipgloss.Color("#bf616a")).Bold(true),
			Pending:     plain.Foreground(lipgloss.Color("#ebcb8b")),
			Selected:    plain.Bold(true).Background(lipgloss.Color("#404552")),
			Done:        plain.Faint(true).Strikethrough(true),
			Help:        plain.Foreground(lipgloss.Color("#7a7f8a")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("#404552"),
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "✔", SymPending: "•",
		}
	case "mono":
		return Theme{
			Name:  "mono",
			Title: plain, Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Selected: plain.Reverse(true), Done: plain, Help: plain,
			Border:       lipgloss.NormalBorder(),
			BorderColor:  lipgloss.NoColor{},
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
		}
	default:
		return Theme{
			Name:        "classic",
			Title:       plain.Bold(true),
			Muted:       plain.Faint(true),
			Accent:      plain.Foreground(lipgloss.Color("12")),
			Success:     plain.Foreground(lipgloss.Color("42")),
			Error:       plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:     plain.Foreground(lipgloss.Color("214")),
			Selected:    plain.Bold(true).Reverse(true),
			Done:        plain.Faint(true).Strikethrough(true),
			Help:        plain.Faint(true),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "✔", SymPending: "•",
		}
	}
}
