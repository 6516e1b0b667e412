// Package executor runs backend command lines through the platform shell,
// with optional privilege elevation and dry-run support.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
)

// ErrDryRun is returned by Output when a dry run would have to elevate to
// capture a command's output.
var ErrDryRun = errors.New("command not run in dry-run mode")

// Options configure an Executor. They are fixed for the executor's lifetime.
type Options struct {
	DryRun  bool
	Verbose bool
	Debug   bool
}

// Executor runs shell command lines and reports their exit codes.
type Executor struct {
	opts Options

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	shellOnce sync.Once
	shell     Shell
	shellErr  error
}

// New creates an Executor wired to the process's standard streams.
func New(opts Options) *Executor {
	return &Executor{
		opts:   opts,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithOutput returns a copy of e writing command output and messages to w.
func (e *Executor) WithOutput(w io.Writer) *Executor {
	return &Executor{
		opts:   e.opts,
		stdin:  e.stdin,
		stdout: w,
		stderr: w,
	}
}

// Options returns the options e was created with.
func (e *Executor) Options() Options {
	return e.opts
}

// Run executes command through the platform shell, elevating when admin is
// set and the process isn't already privileged. It returns the exit code.
// The error is non-nil only when the command could not be started.
// In dry-run mode the command is printed and reported as exit 0.
func (e *Executor) Run(ctx context.Context, command string, admin bool) (int, error) {
	elevate := admin && !isRoot()
	if e.opts.DryRun {
		e.printDryRun(command, elevate)
		return 0, nil
	}
	return e.run(ctx, command, elevate, e.stdout)
}

// Output runs command like Run and returns its standard output. Output is
// for read-only queries, so unelevated commands run even in dry-run mode;
// elevated ones return ErrDryRun there.
func (e *Executor) Output(ctx context.Context, command string, admin bool) (string, int, error) {
	elevate := admin && !isRoot()
	if e.opts.DryRun && elevate {
		e.printDryRun(command, elevate)
		return "", -1, ErrDryRun
	}

	var stdout bytes.Buffer
	code, err := e.run(ctx, command, elevate, &stdout)
	return stdout.String(), code, err
}

func (e *Executor) run(ctx context.Context, command string, elevate bool, stdout io.Writer) (int, error) {
	argv, err := e.argv(command, elevate)
	if err != nil {
		return -1, err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = e.stdin
	cmd.Stdout = stdout
	cmd.Stderr = e.stderr

	if e.opts.Verbose {
		if elevate {
			fmt.Fprintf(e.stdout, "Executing (with %s): %s\n", elevator(), command)
		} else {
			fmt.Fprintf(e.stdout, "Executing: %s\n", command)
		}
	}
	if e.opts.Debug {
		fmt.Fprintf(e.stderr, "[debug] argv: %q\n", argv)
	}

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return exitErr.ExitCode(), ctx.Err()
		}
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// WriteFile replaces the file at path with data. When admin is set and the
// process isn't privileged, the data is piped through the elevation helper's tee.
func (e *Executor) WriteFile(ctx context.Context, path string, data []byte, admin bool) error {
	elevate := admin && !isRoot()

	if e.opts.DryRun {
		fmt.Fprintf(e.stdout, "[dry-run] Would write %s\n", path)
		return nil
	}
	if e.opts.Verbose {
		fmt.Fprintf(e.stdout, "Writing: %s\n", path)
	}

	if !elevate {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	}

	el := elevator()
	if el == "" {
		return ErrNoPrivileges
	}

	cmd := exec.CommandContext(ctx, el, "tee", path)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = io.Discard
	cmd.Stderr = e.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// argv builds the process arguments for command.
func (e *Executor) argv(command string, elevate bool) ([]string, error) {
	e.shellOnce.Do(func() {
		e.shell, e.shellErr = DetectShell(e)
	})
	if e.shellErr != nil {
		return nil, e.shellErr
	}

	argv := e.shell.Command(command)
	if elevate {
		el := elevator()
		if el == "" {
			return nil, ErrNoPrivileges
		}
		argv = append([]string{el}, argv...)
	}
	return argv, nil
}

// Exists reports whether name resolves to an executable. Names containing a
// path separator or a leading ~ are checked directly; others are looked up on PATH.
func (e *Executor) Exists(name string) bool {
	return CommandExists(name)
}

// CommandExists reports whether name resolves to an executable.
func CommandExists(name string) bool {
	if name == "" {
		return false
	}

	if strings.HasPrefix(name, "~") || strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		expanded, err := homedir.Expand(name)
		if err != nil {
			return false
		}
		_, err = exec.LookPath(expanded)
		return err == nil
	}

	_, err := exec.LookPath(name)
	return err == nil
}

func (e *Executor) printDryRun(command string, elevate bool) {
	if elevate {
		fmt.Fprintf(e.stdout, "[dry-run] Would execute (with %s): %s\n", elevator(), command)
		return
	}
	fmt.Fprintf(e.stdout, "[dry-run] Would execute: %s\n", command)
}
