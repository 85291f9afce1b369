// Package tui is the interactive terminal front end. It only talks to the
// task store and the view projection.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/tasks"
	"github.com/idilsaglam/todo/internal/ui"
	"github.com/idilsaglam/todo/internal/view"
)

// Options seeds the initial view.
type Options struct {
	Filter model.Filter
	Theme  string
	Logger *log.Logger
}

type mode int

const (
	modeNormal mode = iota
	modeAdding
	modeEditing
	modeSearching
)

// rowItem adapts a view.Row to bubbles/list.Item
type rowItem struct{ view.Row }

func (i rowItem) FilterValue() string { return i.Task.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+ui.TaskLine(it.Task))
}

// Model is the Bubble Tea model.
type Model struct {
	store  *tasks.Store
	logger *log.Logger
	keys   keyMap

	list   list.Model
	ti     textinput.Model
	filter model.Filter
	query  string
	theme  string

	mode      mode
	editIndex int // store index of the task being edited

	status    string
	statusErr bool

	width, height int
}

// New builds the model over an already loaded store.
func New(store *tasks.Store, opt Options) Model {
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	if opt.Theme == "" {
		opt.Theme = "classic"
	}
	ui.SetTheme(opt.Theme)

	keys := defaultKeys()
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0

	m := Model{
		store:     store,
		logger:    opt.Logger,
		keys:      keys,
		list:      l,
		ti:        ti,
		filter:    opt.Filter,
		theme:     ui.Current().Name,
		editIndex: -1,
		width:     80,
		height:    24,
	}
	m.applyTheme()
	m.refresh()
	m.resize()
	return m
}

// Run starts the program and saves the list once more on exit.
func Run(store *tasks.Store, opt Options) error {
	p := tea.NewProgram(New(store, opt), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	return nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	switch m.mode {
	case modeAdding, modeEditing:
		return m.updateInput(msg)
	case modeSearching:
		return m.updateSearch(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(km, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(km, m.keys.Add):
		m.openInput(modeAdding, "", "New task...")
		return m, textinput.Blink

	case key.Matches(km, m.keys.Edit):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editIndex = row.Index
		m.openInput(modeEditing, row.Task.Text, "Edit task...")
		return m, textinput.Blink

	case key.Matches(km, m.keys.Toggle):
		if row, ok := m.selected(); ok {
			m.apply(m.store.Toggle(row.Index), "toggled")
		}
		return m, nil

	case key.Matches(km, m.keys.Delete):
		if row, ok := m.selected(); ok {
			m.apply(m.store.Delete(row.Index), "deleted")
		}
		return m, nil

	case key.Matches(km, m.keys.MoveUp), key.Matches(km, m.keys.MoveDown):
		m.move(key.Matches(km, m.keys.MoveUp))
		return m, nil

	case key.Matches(km, m.keys.Filter):
		m.filter = m.filter.Next()
		m.refresh()
		m.setStatus("showing "+m.filter.String(), false)
		return m, nil

	case key.Matches(km, m.keys.Search):
		m.openInput(modeSearching, m.query, "Search...")
		return m, textinput.Blink

	case key.Matches(km, m.keys.Clear):
		n, err := m.store.ClearCompleted()
		m.apply(err, fmt.Sprintf("cleared %d completed", n))
		return m, nil

	case key.Matches(km, m.keys.Theme):
		m.theme = ui.NextTheme(m.theme)
		ui.SetTheme(m.theme)
		m.applyTheme()
		m.setStatus("theme "+m.theme, false)
		return m, nil

	case km.String() == "esc":
		if m.query != "" {
			m.query = ""
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			adding := m.mode == modeAdding
			var err error
			if adding {
				err = m.store.Add(m.ti.Value())
			} else {
				err = m.store.Edit(m.editIndex, m.ti.Value())
			}
			// Bad input keeps the box open so the user can fix it.
			if errors.Is(err, tasks.ErrValidation) {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			m.closeInput()
			if adding {
				m.apply(err, "added")
				if n := len(m.list.Items()); n > 0 {
					m.list.Select(n - 1)
				}
			} else {
				m.apply(err, "edited")
			}
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			m.closeInput()
			return m, nil
		case "esc":
			m.query = ""
			m.closeInput()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if q := m.ti.Value(); q != m.query {
		m.query = q
		m.refresh()
	}
	return m, cmd
}

func (m *Model) openInput(md mode, value, placeholder string) {
	m.mode = md
	m.status = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	m.resize()
}

func (m *Model) closeInput() {
	m.mode = modeNormal
	m.editIndex = -1
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// move swaps the selected task with its visible neighbour.
func (m *Model) move(up bool) {
	row, ok := m.selected()
	if !ok {
		return
	}
	cur := m.list.Index()
	next := cur + 1
	if up {
		next = cur - 1
	}
	items := m.list.Items()
	if next < 0 || next >= len(items) {
		return
	}
	target := items[next].(rowItem)
	m.apply(m.store.Move(row.Index, target.Index), "moved")
	m.list.Select(next)
}

// apply reports the outcome of a store call and redraws the rows.
// Storage failures are warnings: the change is kept in memory.
func (m *Model) apply(err error, okMsg string) {
	m.refresh()
	var se *tasks.StorageError
	switch {
	case err == nil:
		m.setStatus(okMsg, false)
	case errors.As(err, &se):
		m.logger.Warn("save failed", "err", se.Err)
		m.setStatus("not saved: "+se.Err.Error(), true)
	default:
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m Model) selected() (view.Row, bool) {
	it, ok := m.list.SelectedItem().(rowItem)
	if !ok {
		return view.Row{}, false
	}
	return it.Row, true
}

// refresh recomputes the visible rows from the store.
func (m *Model) refresh() {
	rows := view.Apply(m.store.Tasks(), view.Options{Filter: m.filter, Query: m.query})
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{r}
	}
	cur := m.list.Index()
	m.list.SetItems(items)
	if cur >= len(items) {
		cur = len(items) - 1
	}
	if cur < 0 {
		cur = 0
	}
	m.list.Select(cur)
	m.list.Title = m.title()
}

func (m Model) title() string {
	t := ui.Current()
	dn, pn := m.store.Stats()
	s := fmt.Sprintf("%s   %s %d  %s %d  %s %d   %s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), dn,
		t.Pending.Render(t.SymPending), pn,
		t.Accent.Render("Total"), dn+pn,
		t.Muted.Render("["+m.filter.String()+"]"),
	)
	if m.query != "" {
		s += t.Muted.Render(fmt.Sprintf(" /%s", m.query))
	}
	return s
}

func (m *Model) applyTheme() {
	t := ui.Current()
	m.list.Styles.Title = t.Title
	m.list.Styles.HelpStyle = t.Help
	m.list.Styles.PaginationStyle = t.Help
	m.list.Title = m.title()
}

func (m *Model) resize() {
	h := m.height - 4
	if m.mode != modeNormal {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.mode != modeNormal {
		title := "Add task"
		switch m.mode {
		case modeEditing:
			title = "Edit task"
		case modeSearching:
			title = "Search"
		}
		if m.status != "" && m.statusErr {
			title += " - " + t.Error.Render(m.status)
		}
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	} else if m.status != "" {
		style := t.Muted
		if m.statusErr {
			style = t.Error
		}
		content += "\n" + style.Render(m.status)
	}
	return ui.PanelString(strings.TrimRight(content, "\n"))
}
