// Package native implements native system package managers.
package native

import (
	"context"
	"slices"
	"strings"

	"pwpm/internal/executor"
	"pwpm/pkg/manager"
)

// BaseManager provides what every backend shares: its identity, its
// capability declaration and the environment it runs commands in.
// Backends embed it and supply the package operations.
type BaseManager struct {
	name    string
	aliases []string
	cap     manager.Capability
	env     manager.Env
}

// NewBaseManager creates a new BaseManager with the given parameters.
// When aliases is empty the backend answers to its own name.
func NewBaseManager(name string, aliases []string, capability manager.Capability, env manager.Env) *BaseManager {
	if len(aliases) == 0 {
		aliases = []string{name}
	}
	return &BaseManager{
		name:    name,
		aliases: aliases,
		cap:     capability,
		env:     env,
	}
}

// Name returns the short identifier for this manager.
func (b *BaseManager) Name() string {
	return b.name
}

// Aliases returns the manager ids accepted in a qualified reference.
func (b *BaseManager) Aliases() []string {
	return slices.Clone(b.aliases)
}

// Capability returns the host requirements.
func (b *BaseManager) Capability() manager.Capability {
	return b.cap
}

// Env returns the environment the backend runs in.
func (b *BaseManager) Env() manager.Env {
	return b.env
}

// IsSupported reports whether every capability check passes on this host.
func (b *BaseManager) IsSupported() bool {
	return b.cap.IsUsable(b.env.Host, b.env.Runner, manager.CheckOpts{})
}

// IsInstallSupported is false unless a backend knows how to bootstrap itself.
func (b *BaseManager) IsInstallSupported() bool {
	return false
}

// AcceptsReference reports whether ref is bare or names one of the aliases.
func (b *BaseManager) AcceptsReference(ref manager.Reference) bool {
	return manager.AcceptsAlias(b.aliases, ref)
}

func (b *BaseManager) AddRepository(ctx context.Context, repo string) error {
	return manager.Unsupported(b.name, "adding repositories")
}

func (b *BaseManager) RemoveRepository(ctx context.Context, repo string) error {
	return manager.Unsupported(b.name, "removing repositories")
}

func (b *BaseManager) InstallSelf(ctx context.Context) error {
	return manager.Unsupported(b.name, "self-installation")
}

// HostReady reports whether the backend could run here once its commands
// were installed, and whether every tool in bootstrap is present.
func (b *BaseManager) HostReady(bootstrap ...string) bool {
	if !b.cap.IsUsable(b.env.Host, b.env.Runner, manager.CheckOpts{IgnoreCommands: true}) {
		return false
	}
	for _, name := range bootstrap {
		if !b.env.Runner.Exists(name) {
			return false
		}
	}
	return true
}

// run executes command with the backend's admin requirement. The exit code
// must be one of ok, or 0 when ok is empty.
func (b *BaseManager) run(ctx context.Context, command string, ok ...int) error {
	return b.Exec(ctx, command, b.cap.RequiresAdmin, ok...)
}

// runAll runs commands in order and stops at the first failure.
func (b *BaseManager) runAll(ctx context.Context, commands ...string) error {
	for _, command := range commands {
		if err := b.run(ctx, command); err != nil {
			return err
		}
	}
	return nil
}

// Exec runs command, elevating when admin is set, and checks the exit code
// against ok (0 when empty). Failures are returned as *manager.ExecError.
func (b *BaseManager) Exec(ctx context.Context, command string, admin bool, ok ...int) error {
	code, err := b.env.Runner.Run(ctx, command, admin)
	if err != nil {
		return &manager.ExecError{Backend: b.name, Command: command, ExitCode: code, Err: err}
	}
	if !acceptCode(code, ok) {
		return &manager.ExecError{Backend: b.name, Command: command, ExitCode: code}
	}
	return nil
}

// Probe runs a query command and reports whether it exited 0. Query output
// is captured and discarded.
func (b *BaseManager) Probe(ctx context.Context, command string) (bool, error) {
	_, code, err := b.env.Runner.Output(ctx, command, false)
	if err != nil {
		return false, &manager.ExecError{Backend: b.name, Command: command, ExitCode: code, Err: err}
	}
	return code == 0, nil
}

// output runs a query command and returns its standard output. A non-zero
// exit is reported as an *ExecError.
func (b *BaseManager) output(ctx context.Context, command string) (string, error) {
	out, code, err := b.env.Runner.Output(ctx, command, false)
	if err != nil || code != 0 {
		return "", &manager.ExecError{Backend: b.name, Command: command, ExitCode: code, Err: err}
	}
	return out, nil
}

func acceptCode(code int, ok []int) bool {
	if len(ok) == 0 {
		return code == 0
	}
	return slices.Contains(ok, code)
}

// quote makes a package name or repository safe to splice into a command line.
func quote(arg string) string {
	return executor.Quote(arg)
}

// quoteFields quotes each whitespace-separated word of s.
func quoteFields(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = quote(f)
	}
	return strings.Join(fields, " ")
}

// pkg returns the quoted package name of ref.
func pkg(ref manager.Reference) string {
	return quote(ref.PackageName())
}

// nameKey is the repository key of backends that add "<name> <location>"
// and remove by name.
func nameKey(spec string) (string, bool) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// splitRepo splits "name url" repository arguments used by backends that
// register named sources.
func splitRepo(backend, repo string) (name, url string, err error) {
	fields := strings.Fields(repo)
	if len(fields) != 2 {
		return "", "", &repoFormatError{backend: backend, repo: repo}
	}
	return fields[0], fields[1], nil
}

type repoFormatError struct {
	backend string
	repo    string
}

func (e *repoFormatError) Error() string {
	return e.backend + `: repository must be given as "<name> <url>", got "` + e.repo + `"`
}
