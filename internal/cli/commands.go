package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ucli "github.com/urfave/cli/v3"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/store/csvstore"
	"github.com/idilsaglam/todo/internal/store/jsonstore"
	"github.com/idilsaglam/todo/internal/tasks"
	"github.com/idilsaglam/todo/internal/tui"
	"github.com/idilsaglam/todo/internal/ui"
)

func newTUICommand() *ucli.Command {
	return &ucli.Command{
		Name:  "tui",
		Usage: "Open the interactive list (default)",
		Action: withApp(true, func(_ context.Context, _ *ucli.Command, a *app) error {
			err := tui.Run(a.store, tui.Options{
				Filter: a.cfg.Filter(),
				Theme:  a.cfg.Theme,
				Logger: a.logger,
			})
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		}),
	}
}

func newAddCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "add",
		Usage:     "Add a new task (text can be multiple words)",
		ArgsUsage: "<text...>",
		Action: withApp(false, func(_ context.Context, cmd *ucli.Command, a *app) error {
			if cmd.NArg() == 0 {
				return usage("usage: todo add <text...>")
			}
			if err := a.store.Add(strings.Join(cmd.Args().Slice(), " ")); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("added #%d", a.store.Len()))
			return nil
		}),
	}
}

func newDoneCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "done",
		Aliases:   []string{"toggle"},
		Usage:     "Toggle done for the task at a 1-based index",
		ArgsUsage: "<index>",
		Action: withApp(false, func(_ context.Context, cmd *ucli.Command, a *app) error {
			i, err := indexArg(cmd, "done", 0)
			if err != nil {
				return err
			}
			if err := a.store.Toggle(i); err != nil {
				return userIndex(err)
			}
			ui.OK("toggled")
			return nil
		}),
	}
}

func newEditCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "edit",
		Usage:     "Replace the text of the task at a 1-based index",
		ArgsUsage: "<index> <text...>",
		Action: withApp(false, func(_ context.Context, cmd *ucli.Command, a *app) error {
			if cmd.NArg() < 2 {
				return usage("usage: todo edit <index> <text...>")
			}
			i, err := indexArg(cmd, "edit", 0)
			if err != nil {
				return err
			}
			if err := a.store.Edit(i, strings.Join(cmd.Args().Slice()[1:], " ")); err != nil {
				return userIndex(err)
			}
			ui.OK("edited")
			return nil
		}),
	}
}

func newRemoveCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "rm",
		Usage:     "Remove the task at a 1-based index",
		ArgsUsage: "<index>",
		Action: withApp(false, func(_ context.Context, cmd *ucli.Command, a *app) error {
			i, err := indexArg(cmd, "rm", 0)
			if err != nil {
				return err
			}
			if err := a.store.Delete(i); err != nil {
				return userIndex(err)
			}
			ui.OK("removed")
			return nil
		}),
	}
}

func newMoveCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "mv",
		Usage:     "Move a task to another 1-based position",
		ArgsUsage: "<from> <to>",
		Action: withApp(false, func(_ context.Context, cmd *ucli.Command, a *app) error {
			if cmd.NArg() != 2 {
				return usage("usage: todo mv <from> <to>")
			}
			from, err := indexArg(cmd, "mv", 0)
			if err != nil {
				return err
			}
			to, err := indexArg(cmd, "mv", 1)
			if err != nil {
				return err
			}
			if err := a.store.Move(from, to); err != nil {
				return userIndex(err)
			}
			ui.OK("moved")
			return nil
		}),
	}
}

func newClearCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "clear",
		Usage: "Remove every completed task",
		Action: withApp(false, func(_ context.Context, _ *ucli.Command, a *app) error {
			n, err := a.store.ClearCompleted()
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("cleared %d completed", n))
			return nil
		}),
	}
}

func newExportCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "export",
		Usage: "Write the list as JSON or CSV",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "format", Usage: "json or csv (default from --out extension, else json)"},
			&ucli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
		},
		Action: withApp(false, func(_ context.Context, cmd *ucli.Command, a *app) error {
			out := cmd.String("out")
			format, err := pickFormat(cmd.String("format"), out)
			if err != nil {
				return err
			}
			items := a.store.Tasks()
			if out == "" {
				if err := writeExport(ui.Stdout, format, items); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				return nil
			}
			if err := exportFile(out, format, items); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			ui.OK(fmt.Sprintf("exported %d tasks to %s", len(items), out))
			return nil
		}),
	}
}

func newImportCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "import",
		Usage:     "Replace (or extend) the list from a JSON or CSV file",
		ArgsUsage: "<file>",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "format", Usage: "json or csv (default from file extension)"},
			&ucli.BoolFlag{Name: "append", Usage: "keep current tasks and add the imported ones"},
		},
		Action: withApp(false, func(_ context.Context, cmd *ucli.Command, a *app) error {
			if cmd.NArg() != 1 {
				return usage("usage: todo import <file>")
			}
			path := cmd.Args().First()
			format, err := pickFormat(cmd.String("format"), path)
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			defer f.Close()

			var items []model.Task
			if format == "csv" {
				items, err = csvstore.Import(f)
			} else {
				items, err = jsonstore.Import(f)
			}
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			if cmd.Bool("append") {
				items = append(a.store.Tasks(), items...)
			}
			if err := a.store.Replace(items); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("imported, %d tasks", a.store.Len()))
			return nil
		}),
	}
}

func writeExport(w io.Writer, format string, items []model.Task) error {
	if format == "csv" {
		return csvstore.Export(w, items)
	}
	return jsonstore.Export(w, items)
}

// exportFile writes items to path. The close error counts: it is the last
// chance to learn the data did not reach the disk.
func exportFile(path, format string, items []model.Task) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeExport(f, format, items); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// indexArg parses the n-th argument as a 1-based index and returns it 0-based.
func indexArg(cmd *ucli.Command, name string, n int) (int, error) {
	if cmd.NArg() <= n {
		return 0, usage("usage: todo %s <index>", name)
	}
	s := cmd.Args().Get(n)
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, usage("%s: not a number: %s", name, s)
	}
	return i - 1, nil
}

// userIndex rewrites index errors in the 1-based numbering users typed.
func userIndex(err error) error {
	var ie *tasks.IndexError
	if errors.As(err, &ie) {
		return &tasks.IndexError{Index: ie.Index + 1, Len: ie.Len}
	}
	return err
}

func pickFormat(flag, path string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if f != "csv" {
			f = "json"
		}
	}
	if f != "json" && f != "csv" {
		return "", usage("unknown format %q (want json or csv)", flag)
	}
	return f, nil
}
