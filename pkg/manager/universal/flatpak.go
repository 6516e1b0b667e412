// Package universal implements cross-distribution package managers.
package universal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pwpm/internal/executor"
	"pwpm/pkg/manager"
	"pwpm/pkg/manager/native"
)

// DefaultFlatpakRemote is added after Flatpak installs itself.
const DefaultFlatpakRemote = "flathub https://flathub.org/repo/flathub.flatpakrepo"

// Flatpak implements the Manager interface for Flatpak.
type Flatpak struct {
	*native.BaseManager

	// defaultRemote is "<name> <url>".
	defaultRemote string

	// delegates are the system backends able to install flatpak, in preference order.
	delegates []manager.Manager
}

// NewFlatpak creates a new Flatpak manager instance.
func NewFlatpak(env manager.Env, defaultRemote string, delegates ...manager.Manager) *Flatpak {
	if strings.TrimSpace(defaultRemote) == "" {
		defaultRemote = DefaultFlatpakRemote
	}
	return &Flatpak{
		BaseManager: native.NewBaseManager("flatpak", nil, manager.Capability{
			DisplayName: "Flatpak",
			Category:    manager.CategoryCrossPlatform,
			Platforms:   []manager.Platform{manager.PlatformLinux},
			Requires:    []manager.CommandGroup{manager.Cmd("flatpak")},
		}, env),
		defaultRemote: defaultRemote,
		delegates:     delegates,
	}
}

// IsInstallSupported reports whether a system backend can install flatpak.
func (f *Flatpak) IsInstallSupported() bool {
	return f.HostReady() && firstSupported(f.delegates) != nil
}

func (f *Flatpak) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return f.Probe(ctx, "flatpak info "+executor.Quote(ref.PackageName()))
}

func (f *Flatpak) Install(ctx context.Context, ref manager.Reference) error {
	return f.Exec(ctx, "flatpak install -y "+executor.Quote(ref.PackageName()), false)
}

func (f *Flatpak) Update(ctx context.Context, ref manager.Reference) error {
	return f.Exec(ctx, "flatpak update -y "+executor.Quote(ref.PackageName()), false)
}

func (f *Flatpak) Uninstall(ctx context.Context, ref manager.Reference) error {
	return f.Exec(ctx, "flatpak uninstall -y "+executor.Quote(ref.PackageName()), false)
}

// UpdateDatabase is a no-op: remotes are refreshed on install and update.
func (f *Flatpak) UpdateDatabase(ctx context.Context) error {
	return nil
}

func (f *Flatpak) UpdateAll(ctx context.Context) error {
	return f.Exec(ctx, "flatpak update -y", false)
}

// AddRepository adds a remote given as "<name> <url>".
func (f *Flatpak) AddRepository(ctx context.Context, repo string) error {
	fields := strings.Fields(repo)
	if len(fields) != 2 {
		return fmt.Errorf(`flatpak: remote must be given as "<name> <url>", got %q`, repo)
	}
	return f.Exec(ctx, "flatpak remote-add --if-not-exists "+executor.Quote(fields[0])+" "+executor.Quote(fields[1]), false)
}

// RepositoryKey returns the remote name of a "<name> <url>" spec.
func (f *Flatpak) RepositoryKey(spec string) (string, bool) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

func (f *Flatpak) RemoveRepository(ctx context.Context, repo string) error {
	return f.Exec(ctx, "flatpak remote-delete "+executor.Quote(strings.TrimSpace(repo)), false)
}

// InstallSelf installs flatpak with the first system backend that succeeds,
// then adds the default remote.
func (f *Flatpak) InstallSelf(ctx context.Context) error {
	if _, err := installWith(ctx, f.delegates, "flatpak"); err != nil {
		return fmt.Errorf("flatpak: %w", err)
	}
	return f.AddRepository(ctx, f.defaultRemote)
}

func firstSupported(ms []manager.Manager) manager.Manager {
	for _, m := range ms {
		if m.IsSupported() {
			return m
		}
	}
	return nil
}

// installWith installs name through the supported managers in order and
// returns the one that succeeded.
func installWith(ctx context.Context, ms []manager.Manager, name string) (manager.Manager, error) {
	ref := manager.ParseReference(name)

	var errs []error
	for _, m := range ms {
		if !m.IsSupported() {
			continue
		}
		err := m.Install(ctx, ref)
		if err == nil {
			return m, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("installing %s: %w", name, manager.ErrNoCapableBackend)
	}
	return nil, fmt.Errorf("installing %s: %w", name, errors.Join(errs...))
}
