package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	ucli "github.com/urfave/cli/v3"

	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/store/jsonstore"
	"github.com/idilsaglam/todo/internal/tasks"
	"github.com/idilsaglam/todo/internal/ui"
)

// usageError marks bad invocations; they exit with code 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usage(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string) int {
	err := NewRootCommand().Run(ctx, args)
	if err == nil {
		return 0
	}
	ui.Fail(err.Error())
	var ue *usageError
	var ie *tasks.IndexError
	var ve *tasks.ValidationError
	switch {
	case errors.As(err, &ie):
		ui.Hint("run `todo ls` to see valid indexes")
		return 2
	case errors.As(err, &ue), errors.As(err, &ve):
		return 2
	}
	return 1
}

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "todo",
		Usage:     "a tiny task list for the terminal",
		Writer:    ui.Stdout,
		ErrWriter: ui.Stderr,
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a TOML config file"},
			&ucli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "tasks file (default ./tasks.json)"},
			&ucli.StringFlag{Name: "theme", Usage: "classic, dark or mono"},
			&ucli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&ucli.StringFlag{Name: "log-file", Usage: "write logs to this file"},
		},
		Commands: []*ucli.Command{
			newTUICommand(),
			newAddCommand(),
			newListCommand(),
			newDoneCommand(),
			newEditCommand(),
			newRemoveCommand(),
			newMoveCommand(),
			newClearCommand(),
			newExportCommand(),
			newImportCommand(),
		},
		DefaultCommand: "tui",
	}
}

// app is what every subcommand works with.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	store  *tasks.Store
	close  func() error
}

// openApp loads config, sets up logging and loads the task store. A file
// that cannot be read is reported and the list starts empty.
func openApp(cmd *ucli.Command, interactive bool) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(config.Overrides{
		DataFile: cmd.String("file"),
		Theme:    cmd.String("theme"),
		LogLevel: cmd.String("log-level"),
		LogFile:  cmd.String("log-file"),
	}); err != nil {
		return nil, usage("config: %v", err)
	}
	ui.SetTheme(cfg.Theme)

	logger, closeLog := logging.Discard(), func() error { return nil }
	// Without a log file the TUI keeps the terminal to itself.
	if cfg.LogFile != "" || !interactive {
		logger, closeLog, err = logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Writer: ui.Stderr})
		if err != nil {
			return nil, err
		}
	}

	path, err := cfg.DataPath()
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	file, err := jsonstore.New(path)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	store := tasks.New(file, logger)
	if err := store.Load(); err != nil {
		ui.Warn(fmt.Sprintf("could not read %s, starting with an empty list: %v", path, errors.Unwrap(err)))
	}
	logger.Debug("opened", "file", path, "tasks", store.Len(), "config", cfg.Sources)
	return &app{cfg: cfg, logger: logger, store: store, close: closeLog}, nil
}

// withApp wraps an action so it always gets an opened app.
func withApp(interactive bool, fn func(ctx context.Context, cmd *ucli.Command, a *app) error) ucli.ActionFunc {
	return func(ctx context.Context, cmd *ucli.Command) error {
		a, err := openApp(cmd, interactive)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, cmd, a)
	}
}
