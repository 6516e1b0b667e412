package universal

import (
	"context"
	"fmt"
	"os"

	"pwpm/internal/executor"
	"pwpm/pkg/manager"
	"pwpm/pkg/manager/native"
)

// Snap implements the Manager interface for Snap. snapd can't run under WSL.
type Snap struct {
	*native.BaseManager
	allowClassic bool

	// delegates are the system backends able to install snapd, in preference order.
	delegates []manager.Manager

	fileExists func(string) bool
}

// NewSnap creates a new Snap manager instance. allowClassic installs snaps
// with classic confinement.
func NewSnap(env manager.Env, allowClassic bool, delegates ...manager.Manager) *Snap {
	return &Snap{
		BaseManager: native.NewBaseManager("snap", []string{"snap", "snapcraft"}, manager.Capability{
			DisplayName: "Snap",
			Category:    manager.CategoryCrossPlatform,
			Platforms:   []manager.Platform{manager.PlatformLinux},
			NoWSL:       true,
			Requires:    []manager.CommandGroup{manager.Cmd("snap")},
		}, env),
		allowClassic: allowClassic,
		delegates:    delegates,
		fileExists:   fileExists,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsInstallSupported reports whether snapd can be installed: it needs an
// elevated process and a supported system backend.
func (s *Snap) IsInstallSupported() bool {
	return s.HostReady() && s.Env().Host.Admin && firstSupported(s.delegates) != nil
}

func (s *Snap) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return s.Probe(ctx, "snap list "+executor.Quote(ref.PackageName()))
}

func (s *Snap) Install(ctx context.Context, ref manager.Reference) error {
	command := "snap install "
	if s.allowClassic {
		command += "--classic "
	}
	return s.Exec(ctx, command+executor.Quote(ref.PackageName()), false)
}

func (s *Snap) Update(ctx context.Context, ref manager.Reference) error {
	return s.Exec(ctx, "snap refresh "+executor.Quote(ref.PackageName()), false)
}

func (s *Snap) Uninstall(ctx context.Context, ref manager.Reference) error {
	return s.Exec(ctx, "snap remove "+executor.Quote(ref.PackageName()), false)
}

// UpdateDatabase is a no-op: the store is queried live.
func (s *Snap) UpdateDatabase(ctx context.Context) error {
	return nil
}

func (s *Snap) UpdateAll(ctx context.Context) error {
	return s.Exec(ctx, "snap refresh", false)
}

// InstallSelf installs snapd through a system backend, enables its socket
// and, on distributions that keep snaps under /var/lib/snapd, links /snap
// so classic snaps work.
func (s *Snap) InstallSelf(ctx context.Context) error {
	var candidates []manager.Manager
	for _, m := range s.delegates {
		if !m.IsSupported() {
			continue
		}
		if (m.Name() == "dnf" || m.Name() == "yum") && !s.fileExists("/etc/fedora-release") {
			// RHEL-family systems ship snapd in EPEL.
			if err := m.Install(ctx, manager.ParseReference("epel-release")); err != nil && s.fileExists("/etc/redhat-release") {
				continue
			}
		}
		candidates = append(candidates, m)
	}

	installer, err := installWith(ctx, candidates, "snapd")
	if err != nil {
		return fmt.Errorf("snap: %w", err)
	}

	if err := s.Exec(ctx, "systemctl enable --now snapd.socket", true); err != nil {
		return err
	}

	switch installer.Name() {
	case "pacman", "dnf", "yum":
		return s.Exec(ctx, "ln -sfn /var/lib/snapd/snap /snap", true)
	}
	return nil
}
