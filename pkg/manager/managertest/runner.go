// Package managertest provides a scripted manager.Runner for backend tests.
package managertest

import (
	"context"
	"slices"
	"sync"

	"pwpm/pkg/manager"
)

// Call records one command line handed to the Runner.
type Call struct {
	Command string
	Admin   bool
}

// Runner is a manager.Runner that never starts a process. Command lines
// exit 0 with empty output unless scripted otherwise.
type Runner struct {
	mu sync.Mutex

	installed map[string]bool
	codes     map[string]int
	outputs   map[string]string
	startErrs map[string]error

	files map[string][]byte
	calls []Call
}

// NewRunner creates a Runner on which the named commands exist.
func NewRunner(commands ...string) *Runner {
	r := &Runner{
		installed: make(map[string]bool),
		codes:     make(map[string]int),
		outputs:   make(map[string]string),
		startErrs: make(map[string]error),
		files:     make(map[string][]byte),
	}
	for _, c := range commands {
		r.installed[c] = true
	}
	return r
}

// Env returns an Env running on host through r.
func (r *Runner) Env(host manager.Host) manager.Env {
	return manager.Env{Host: host, Runner: r}
}

// ExitCode scripts the exit code of a command line.
func (r *Runner) ExitCode(command string, code int) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[command] = code
	return r
}

// Stdout scripts the standard output of a command line.
func (r *Runner) Stdout(command, out string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[command] = out
	return r
}

// StartError makes a command line fail to start.
func (r *Runner) StartError(command string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startErrs[command] = err
	return r
}

// SetFile seeds the content later returned by File.
func (r *Runner) SetFile(path string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[path] = slices.Clone(data)
}

// File returns what was last written to path.
func (r *Runner) File(path string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.files[path]
	return data, ok
}

// Calls returns every command line run so far, in order.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Commands returns the command lines run so far, in order, or nil when
// nothing ran.
func (r *Runner) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var commands []string
	for _, c := range r.calls {
		commands = append(commands, c.Command)
	}
	return commands
}

func (r *Runner) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.installed[name]
}

func (r *Runner) Run(ctx context.Context, command string, admin bool) (int, error) {
	_, code, err := r.Output(ctx, command, admin)
	return code, err
}

func (r *Runner) Output(ctx context.Context, command string, admin bool) (string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Command: command, Admin: admin})
	if err := r.startErrs[command]; err != nil {
		return "", -1, err
	}
	return r.outputs[command], r.codes[command], nil
}

func (r *Runner) WriteFile(ctx context.Context, path string, data []byte, admin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[path] = slices.Clone(data)
	return nil
}

var _ manager.Runner = (*Runner)(nil)
