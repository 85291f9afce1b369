package cli

import (
	"context"
	"fmt"

	ucli "github.com/urfave/cli/v3"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/tasks"
	"github.com/idilsaglam/todo/internal/ui"
	"github.com/idilsaglam/todo/internal/view"
)

func newListCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "ls",
		Usage: "List tasks",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "filter", Usage: "all, active or completed (default from config)"},
			&ucli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "only tasks whose text contains this"},
			&ucli.BoolFlag{Name: "group", Usage: "group output by pending/done"},
		},
		Action: withApp(false, func(_ context.Context, cmd *ucli.Command, a *app) error {
			filter := a.cfg.Filter()
			if cmd.IsSet("filter") {
				f, err := model.ParseFilter(cmd.String("filter"))
				if err != nil {
					return usage("ls: %v", err)
				}
				filter = f
			}
			doList(a.store, view.Options{Filter: filter, Query: cmd.String("search")}, cmd.Bool("group"))
			return nil
		}),
	}
}

func doList(store *tasks.Store, opt view.Options, group bool) {
	t := ui.Current()
	items := store.Tasks()

	// Header + progress
	d, p := store.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(items),
		t.Muted.Render("["+opt.Filter.String()+"]"),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	rows := view.Apply(items, opt)
	if group {
		lines = append(lines, groupLines(rows)...)
	} else {
		lines = append(lines, flatLines(rows)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
}

// -------------- rendering helpers --------------

// flatLines numbers rows by their position in the full list so the numbers
// stay valid for done/rm/edit under any filter.
func flatLines(rows []view.Row) []string {
	t := ui.Current()
	if len(rows) == 0 {
		return []string{t.Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		it := r.Task
		if len([]rune(it.Text)) > 80 {
			it.Text = string([]rune(it.Text)[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s", t.Muted.Render(fmt.Sprintf("%2d.", r.Index+1)), ui.TaskLine(it)))
	}
	return out
}

func groupLines(rows []view.Row) []string {
	pend, done := view.Group(rows)
	t := ui.Current()
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
