package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/idilsaglam/combo/internal/engine"
	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/store/filelock"
	"github.com/idilsaglam/combo/internal/ui"
)

// Options wire the process environment into Run.
type Options struct {
	Stdout, Stderr io.Writer
	Stdin          io.Reader
	Version        string
}

// exitError carries an exit code. A nil err means the failure was already
// reported to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, a ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, a...)}
}

// reported marks a failure whose message is already on screen.
func reported(code int) error { return &exitError{code: code} }

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	ui.SetOutput(opt.Stdout, opt.Stderr)

	a := &app{opt: opt}
	defer a.close()

	root := NewRootCommand(a)
	root.SetArgs(args)
	root.SetOut(opt.Stdout)
	root.SetErr(opt.Stderr)
	root.SetIn(opt.Stdin)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}
	return report(err)
}

func report(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			ui.Fail(ee.err.Error())
		}
		return ee.code
	}

	ui.Fail(err.Error())
	switch {
	case strings.HasPrefix(err.Error(), "unknown command"),
		strings.HasPrefix(err.Error(), "unknown flag"),
		strings.HasPrefix(err.Error(), "unknown shorthand flag"):
		ui.Hint("Run `combo --help` for usage.")
		return 2
	case errors.Is(err, model.ErrEmptyName),
		errors.Is(err, model.ErrEmptyValue),
		errors.Is(err, model.ErrTooFewLists),
		errors.Is(err, model.ErrListNotFound),
		errors.Is(err, model.ErrItemNotFound),
		errors.Is(err, model.ErrRuleNotFound),
		errors.Is(err, engine.ErrBadAttempts):
		return 2
	case errors.Is(err, engine.ErrNothingToDraw):
		ui.Hint("Hint: add items with `combo item add <list> <value>`")
		return 2
	case errors.Is(err, filelock.ErrLocked):
		ui.Hint("Hint: close the other combo session (combo ui) and retry")
		return 1
	}
	return 1
}
