package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pwpm/internal/config"
	"pwpm/internal/executor"
	"pwpm/internal/history"
	"pwpm/internal/lock"
	"pwpm/internal/ui"
	"pwpm/pkg/manager"
	"pwpm/pkg/manager/catalog"
	"pwpm/pkg/manager/detector"
)

// session is everything one pwpm invocation works with. It is built once,
// after flags and configuration are merged.
type session struct {
	cfg  *config.Config
	info *detector.SystemInfo
	env  manager.Env
	all  []manager.Manager
	disp *manager.Dispatcher

	lockPath    string
	historyPath string
}

// newSession detects the host and builds the dispatcher for it.
func newSession(c *config.Config) (*session, error) {
	exec := executor.New(executor.Options{
		DryRun:  c.General.DryRun,
		Verbose: c.Output.Verbose,
		Debug:   c.Output.Debug,
	})

	info, err := detector.Detect()
	if err != nil {
		// Non-fatal: the platform is still known
		ui.DebugMsg("system detection: %v", err)
	}

	env := manager.Env{Host: info.Host(exec.IsAdmin()), Runner: exec}
	s, err := newSessionWith(c, info, env)
	if err != nil {
		return nil, err
	}
	s.lockPath = config.LockPath()
	s.historyPath = config.HistoryPath()
	return s, nil
}

// newSessionWith builds a session for an already known host.
func newSessionWith(c *config.Config, info *detector.SystemInfo, env manager.Env) (*session, error) {
	all := catalog.All(env, c.CatalogOptions())
	disp, err := manager.Build(all, c.BuildOpts())
	if err != nil {
		return nil, err
	}

	for _, name := range disp.Dropped() {
		ui.WarningMsg("Package manager %q is not usable here; ignoring it", name)
	}
	ui.DebugMsg("host: %s admin=%t wsl=%t", env.Host.Platform, env.Host.Admin, env.Host.WSL)
	ui.DebugMsg("dispatch order: %s", strings.Join(disp.Names(), ", "))

	return &session{
		cfg:  c,
		info: info,
		env:  env,
		all:  all,
		disp: disp,
	}, nil
}

// references resolves aliases and parses the raw package arguments.
func (s *session) references(args []string) []manager.Reference {
	return manager.ParseReferences(s.cfg.ResolveAliases(args))
}

// refOp is a dispatcher operation applied to one package reference.
type refOp struct {
	op    history.Operation
	done  string
	any   func(*manager.Dispatcher, context.Context, manager.Reference) manager.Outcome
	named func(*manager.Dispatcher, context.Context, string, manager.Reference) manager.Outcome
}

var (
	installOp = refOp{
		op:    history.OpInstall,
		done:  "Installed",
		any:   (*manager.Dispatcher).Install,
		named: (*manager.Dispatcher).InstallWith,
	}
	updateOp = refOp{
		op:    history.OpUpdate,
		done:  "Updated",
		any:   (*manager.Dispatcher).Update,
		named: (*manager.Dispatcher).UpdateWith,
	}
	uninstallOp = refOp{
		op:    history.OpUninstall,
		done:  "Uninstalled",
		any:   (*manager.Dispatcher).Uninstall,
		named: (*manager.Dispatcher).UninstallWith,
	}
)

// apply runs op for every reference. All references must succeed. Each
// reference gets its own history entry naming the backend that handled it.
func (s *session) apply(ctx context.Context, op refOp, name string, refs []manager.Reference) (manager.Outcome, []*history.Entry) {
	entries := make([]*history.Entry, 0, len(refs))
	out := s.disp.Each(refs, manager.PolicyAll, func(ref manager.Reference) manager.Outcome {
		var o manager.Outcome
		if name != "" {
			o = op.named(s.disp, ctx, name, ref)
		} else {
			o = op.any(s.disp, ctx, ref)
		}
		ui.DebugMsg("%s %s: %s via %v", op.op, ref, o.Kind(), o.Invoked())

		if o.OK {
			ui.SuccessMsg("%s %s with %s", op.done, ref, o.Backend)
		}
		entries = append(entries, s.entry(op.op, backendOf(o, name), []string{ref.String()}, o))
		return o
	})
	return out, entries
}

// backendOf returns the backend an outcome is attributed to.
func backendOf(out manager.Outcome, name string) string {
	if out.Backend != "" {
		return out.Backend
	}
	return strings.ToLower(name)
}

// entry creates the history entry for an outcome.
func (s *session) entry(op history.Operation, backend string, targets []string, out manager.Outcome) *history.Entry {
	e := history.NewEntry(op, backend, targets)
	e.DryRun = s.cfg.General.DryRun
	if out.OK {
		e.MarkSuccess()
	} else {
		e.MarkFailed(out.Err)
	}
	return e
}

// mutate runs fn while holding the process lock, journals its entries and
// turns a failed outcome into an error.
func (s *session) mutate(ctx context.Context, what string, fn func() (manager.Outcome, []*history.Entry)) error {
	var (
		out     manager.Outcome
		entries []*history.Entry
	)
	err := lock.With(ctx, s.lockPath, s.cfg.General.LockTimeout, func() error {
		out, entries = fn()
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			return fmt.Errorf("another pwpm process is running: %w", err)
		}
		return err
	}

	s.record(entries)
	if !out.OK {
		return outcomeError(what, out)
	}
	return nil
}

// record journals entries. History is best effort: failures are only
// shown in debug mode.
func (s *session) record(entries []*history.Entry) {
	if len(entries) == 0 || s.historyPath == "" {
		return
	}

	store, err := s.openHistory()
	if err != nil {
		ui.DebugMsg("history: %v", err)
		return
	}
	defer store.Close()

	for _, e := range entries {
		if err := store.Record(e); err != nil {
			ui.DebugMsg("history: %v", err)
		}
	}
}

// openHistory opens the session's history store, creating its directory.
func (s *session) openHistory() (*history.Store, error) {
	if err := os.MkdirAll(filepath.Dir(s.historyPath), 0755); err != nil {
		return nil, err
	}
	return history.OpenAt(s.historyPath)
}

// confirm asks before a change unless prompts are disabled. Dry runs never ask.
func (s *session) confirm(prompt string, defaultYes bool) error {
	if s.cfg.General.AutoConfirm || s.cfg.General.DryRun {
		return nil
	}
	ok, err := ui.Confirm(prompt, defaultYes)
	if err != nil {
		if errors.Is(err, ui.ErrNotInteractive) {
			return fmt.Errorf("%w; pass --yes to proceed", err)
		}
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}
