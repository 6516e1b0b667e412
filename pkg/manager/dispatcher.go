package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// BuildOpts controls which backends a Dispatcher keeps.
type BuildOpts struct {
	// Filter restricts the dispatcher to backends whose name or alias is
	// listed. Empty keeps every usable backend. Names that match nothing
	// are dropped and reported by Dispatcher.Dropped.
	Filter []string

	// AllowSelfInstall also keeps backends that are not usable yet but
	// could install themselves.
	AllowSelfInstall bool

	// Priority moves the listed backends to the front, in listed order.
	Priority []string
}

type entry struct {
	name string
	mgr  Manager
}

// Dispatcher routes operations to an ordered set of usable backends and
// aggregates their results. It is immutable once built.
type Dispatcher struct {
	entries []entry
	dropped []string
}

// Build creates a Dispatcher from the catalogue of all backends.
func Build(all []Manager, opts BuildOpts) (*Dispatcher, error) {
	names := make(map[string]bool, len(all))
	for _, mgr := range all {
		names[strings.ToLower(mgr.Name())] = true
	}
	refersTo := func(mgr Manager, want string) bool {
		if names[strings.ToLower(want)] {
			return strings.EqualFold(mgr.Name(), want)
		}
		return matchesName(mgr, want)
	}

	kept := make([]entry, 0, len(all))
	for _, mgr := range all {
		if err := mgr.Capability().Validate(); err != nil {
			return nil, err
		}

		usable := mgr.IsSupported()
		if !usable && opts.AllowSelfInstall {
			usable = mgr.IsInstallSupported()
		}
		if !usable {
			continue
		}
		kept = append(kept, entry{name: strings.ToLower(mgr.Name()), mgr: mgr})
	}

	d := &Dispatcher{}

	if len(opts.Filter) > 0 {
		var filtered []entry
		matched := make(map[string]bool)
		for _, e := range kept {
			for _, want := range opts.Filter {
				if refersTo(e.mgr, want) {
					filtered = append(filtered, e)
					matched[strings.ToLower(want)] = true
					break
				}
			}
		}
		for _, want := range opts.Filter {
			if !matched[strings.ToLower(want)] {
				d.dropped = append(d.dropped, want)
			}
		}
		kept = filtered
	}

	seen := make(map[string]bool, len(kept))
	for _, e := range kept {
		if seen[e.name] {
			return nil, fmt.Errorf("%q: %w", e.name, ErrDuplicateBackend)
		}
		seen[e.name] = true
	}

	sortByPriority(kept, opts.Priority, refersTo)
	d.entries = kept
	return d, nil
}

// matchesName reports whether name refers to mgr by name or alias.
func matchesName(mgr Manager, name string) bool {
	if strings.EqualFold(mgr.Name(), name) {
		return true
	}
	for _, alias := range mgr.Aliases() {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// sortByPriority stably moves prioritised backends to the front.
func sortByPriority(entries []entry, priority []string, refersTo func(Manager, string) bool) {
	if len(priority) == 0 {
		return
	}

	rank := func(e entry) int {
		for i, name := range priority {
			if refersTo(e.mgr, name) {
				return i
			}
		}
		return len(priority)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return rank(entries[i]) < rank(entries[j])
	})
}

// Names returns the backend names in dispatch order.
func (d *Dispatcher) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.name
	}
	return names
}

// Managers returns the backends in dispatch order.
func (d *Dispatcher) Managers() []Manager {
	managers := make([]Manager, len(d.entries))
	for i, e := range d.entries {
		managers[i] = e.mgr
	}
	return managers
}

// Len returns the number of backends.
func (d *Dispatcher) Len() int {
	return len(d.entries)
}

// Dropped returns the filter names that matched no usable backend.
func (d *Dispatcher) Dropped() []string {
	return d.dropped
}

// Get returns the backend with the given name, falling back to aliases.
func (d *Dispatcher) Get(name string) (Manager, bool) {
	e, ok := d.lookup(name)
	return e.mgr, ok
}

func (d *Dispatcher) lookup(name string) (entry, bool) {
	name = strings.ToLower(name)
	for _, e := range d.entries {
		if e.name == name {
			return e, true
		}
	}
	for _, e := range d.entries {
		if matchesName(e.mgr, name) {
			return e, true
		}
	}
	return entry{}, false
}

// Resolve returns the first backend that accepts ref.
func (d *Dispatcher) Resolve(ref Reference) (Manager, bool) {
	for _, e := range d.entries {
		if e.mgr.AcceptsReference(ref) {
			return e.mgr, true
		}
	}
	return nil, false
}

func (d *Dispatcher) accepting(entries []entry, ref Reference) []entry {
	var out []entry
	for _, e := range entries {
		if e.mgr.AcceptsReference(ref) {
			out = append(out, e)
		}
	}
	return out
}

func (d *Dispatcher) named(name string) ([]entry, error) {
	e, ok := d.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownBackend)
	}
	return []entry{e}, nil
}

// anyOf invokes candidates in order and stops at the first success.
func anyOf(op string, candidates []entry, fn func(Manager) (bool, error)) Outcome {
	if len(candidates) == 0 {
		return failedOutcome(fmt.Errorf("%s: %w", op, ErrNoCapableBackend), nil)
	}

	attempts := make([]Attempt, 0, len(candidates))
	var failures, unsupported []error
	for _, e := range candidates {
		ok, err := fn(e.mgr)
		attempts = append(attempts, Attempt{Backend: e.name, OK: ok, Err: err})
		if ok {
			return okOutcome(e.name, attempts)
		}
		switch {
		case err == nil:
		case IsUnsupported(err):
			unsupported = append(unsupported, err)
		default:
			failures = append(failures, err)
		}
	}

	switch {
	case len(failures) > 0:
		return failedOutcome(errors.Join(failures...), attempts)
	case len(unsupported) == len(attempts):
		return failedOutcome(errors.Join(unsupported...), attempts)
	}
	return failedOutcome(nil, attempts)
}

// allOf invokes every backend once and succeeds only if all of them do.
func allOf(entries []entry, fn func(Manager) error) Outcome {
	attempts := make([]Attempt, 0, len(entries))
	var failures []error
	for _, e := range entries {
		err := fn(e.mgr)
		attempts = append(attempts, Attempt{Backend: e.name, OK: err == nil, Err: err})
		if err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return failedOutcome(errors.Join(failures...), attempts)
	}
	return Outcome{OK: true, Attempts: attempts}
}

func succeeded(err error) (bool, error) {
	return err == nil, err
}

func (d *Dispatcher) refOp(ctx context.Context, op string, candidates []entry, ref Reference,
	fn func(context.Context, Manager, Reference) error) Outcome {
	return anyOf(op+" "+ref.String(), d.accepting(candidates, ref), func(m Manager) (bool, error) {
		return succeeded(fn(ctx, m, ref))
	})
}

func (d *Dispatcher) namedRefOp(ctx context.Context, op, name string, ref Reference,
	fn func(context.Context, Manager, Reference) error) Outcome {
	entries, err := d.named(name)
	if err != nil {
		return failedOutcome(err, nil)
	}
	return d.refOp(ctx, op, entries, ref, fn)
}

func install(ctx context.Context, m Manager, ref Reference) error   { return m.Install(ctx, ref) }
func update(ctx context.Context, m Manager, ref Reference) error    { return m.Update(ctx, ref) }
func uninstall(ctx context.Context, m Manager, ref Reference) error { return m.Uninstall(ctx, ref) }

// Install installs ref with the first accepting backend that succeeds.
func (d *Dispatcher) Install(ctx context.Context, ref Reference) Outcome {
	return d.refOp(ctx, "install", d.entries, ref, install)
}

// Update updates ref with the first accepting backend that succeeds.
func (d *Dispatcher) Update(ctx context.Context, ref Reference) Outcome {
	return d.refOp(ctx, "update", d.entries, ref, update)
}

// Uninstall removes ref with the first accepting backend that succeeds.
func (d *Dispatcher) Uninstall(ctx context.Context, ref Reference) Outcome {
	return d.refOp(ctx, "uninstall", d.entries, ref, uninstall)
}

// InstallWith installs ref with the named backend only.
func (d *Dispatcher) InstallWith(ctx context.Context, name string, ref Reference) Outcome {
	return d.namedRefOp(ctx, "install", name, ref, install)
}

// UpdateWith updates ref with the named backend only.
func (d *Dispatcher) UpdateWith(ctx context.Context, name string, ref Reference) Outcome {
	return d.namedRefOp(ctx, "update", name, ref, update)
}

// UninstallWith removes ref with the named backend only.
func (d *Dispatcher) UninstallWith(ctx context.Context, name string, ref Reference) Outcome {
	return d.namedRefOp(ctx, "uninstall", name, ref, uninstall)
}

func (d *Dispatcher) isInstalled(ctx context.Context, candidates []entry, ref Reference) Outcome {
	return anyOf("is-installed "+ref.String(), d.accepting(candidates, ref), func(m Manager) (bool, error) {
		return m.IsInstalled(ctx, ref)
	})
}

// IsInstalled reports whether any accepting backend has ref installed.
// A false result with a nil error means every backend answered "no".
func (d *Dispatcher) IsInstalled(ctx context.Context, ref Reference) Outcome {
	return d.isInstalled(ctx, d.entries, ref)
}

// IsInstalledWith asks the named backend only.
func (d *Dispatcher) IsInstalledWith(ctx context.Context, name string, ref Reference) Outcome {
	entries, err := d.named(name)
	if err != nil {
		return failedOutcome(err, nil)
	}
	return d.isInstalled(ctx, entries, ref)
}

func updateDatabase(ctx context.Context) func(Manager) error {
	return func(m Manager) error { return m.UpdateDatabase(ctx) }
}

// UpdateDatabase refreshes package indexes. With all set, every backend is
// refreshed and all must succeed; otherwise the first success is enough.
func (d *Dispatcher) UpdateDatabase(ctx context.Context, all bool) Outcome {
	fn := updateDatabase(ctx)
	if all {
		return allOf(d.entries, fn)
	}
	return anyOf("update-package-db", d.entries, func(m Manager) (bool, error) {
		return succeeded(fn(m))
	})
}

// UpdateDatabaseWith refreshes the named backend's index.
func (d *Dispatcher) UpdateDatabaseWith(ctx context.Context, name string) Outcome {
	entries, err := d.named(name)
	if err != nil {
		return failedOutcome(err, nil)
	}
	return allOf(entries, updateDatabase(ctx))
}

// UpdateAll upgrades every package of every backend. All backends must succeed.
func (d *Dispatcher) UpdateAll(ctx context.Context) Outcome {
	return allOf(d.entries, func(m Manager) error { return m.UpdateAll(ctx) })
}

// UpdateAllWith upgrades every package of the named backend.
func (d *Dispatcher) UpdateAllWith(ctx context.Context, name string) Outcome {
	entries, err := d.named(name)
	if err != nil {
		return failedOutcome(err, nil)
	}
	return allOf(entries, func(m Manager) error { return m.UpdateAll(ctx) })
}

func (d *Dispatcher) repoOp(op string, entries []entry, fn func(Manager) error) Outcome {
	return anyOf(op, entries, func(m Manager) (bool, error) {
		return succeeded(fn(m))
	})
}

// AddRepository adds repo with the first backend that succeeds.
func (d *Dispatcher) AddRepository(ctx context.Context, repo string) Outcome {
	return d.repoOp("add-package-db "+repo, d.entries, func(m Manager) error {
		return m.AddRepository(ctx, repo)
	})
}

// RemoveRepository removes repo with the first backend that succeeds.
func (d *Dispatcher) RemoveRepository(ctx context.Context, repo string) Outcome {
	return d.repoOp("remove-package-db "+repo, d.entries, func(m Manager) error {
		return m.RemoveRepository(ctx, repo)
	})
}

// AddRepositoryWith adds repo with the named backend.
func (d *Dispatcher) AddRepositoryWith(ctx context.Context, name, repo string) Outcome {
	entries, err := d.named(name)
	if err != nil {
		return failedOutcome(err, nil)
	}
	return d.repoOp("add-package-db "+repo, entries, func(m Manager) error {
		return m.AddRepository(ctx, repo)
	})
}

// RemoveRepositoryWith removes repo with the named backend.
func (d *Dispatcher) RemoveRepositoryWith(ctx context.Context, name, repo string) Outcome {
	entries, err := d.named(name)
	if err != nil {
		return failedOutcome(err, nil)
	}
	return d.repoOp("remove-package-db "+repo, entries, func(m Manager) error {
		return m.RemoveRepository(ctx, repo)
	})
}

// InstallManager bootstraps the named backend.
func (d *Dispatcher) InstallManager(ctx context.Context, name string) Outcome {
	entries, err := d.named(name)
	if err != nil {
		return failedOutcome(err, nil)
	}
	return anyOf("install-pm "+name, entries, func(m Manager) (bool, error) {
		return succeeded(m.InstallSelf(ctx))
	})
}

// Policy selects how Each folds per-reference outcomes.
type Policy int

const (
	// PolicyAll runs every reference and succeeds only if all succeed.
	PolicyAll Policy = iota

	// PolicyAny stops at the first reference that succeeds.
	PolicyAny
)

// Each applies fn to every reference and folds the outcomes with policy.
func (d *Dispatcher) Each(refs []Reference, policy Policy, fn func(Reference) Outcome) Outcome {
	var attempts []Attempt
	var errs []error

	for _, ref := range refs {
		out := fn(ref)
		attempts = append(attempts, out.Attempts...)
		if out.OK && policy == PolicyAny {
			return okOutcome(out.Backend, attempts)
		}
		if !out.OK {
			if out.Err == nil {
				out.Err = fmt.Errorf("%s: no package manager reported success", ref)
			}
			errs = append(errs, out.Err)
		}
	}

	if policy == PolicyAny {
		if len(errs) == 0 {
			errs = append(errs, ErrNoCapableBackend)
		}
		return failedOutcome(errors.Join(errs...), attempts)
	}
	if len(errs) > 0 {
		return failedOutcome(errors.Join(errs...), attempts)
	}
	return Outcome{OK: true, Attempts: attempts}
}
