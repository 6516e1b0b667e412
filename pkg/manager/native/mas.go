package native

import (
	"context"
	"fmt"

	"pwpm/pkg/manager"
)

// Mas implements the Manager interface for the Mac App Store through the
// mas CLI. Packages are numeric app ids.
type Mas struct {
	*BaseManager
	brew manager.Manager
}

// NewMas creates a new Mas manager instance. brew is used to install mas itself.
func NewMas(env manager.Env, brew manager.Manager) *Mas {
	return &Mas{
		BaseManager: NewBaseManager("mas", []string{"mas", "apple-app-store", "apple", "apple-store"}, manager.Capability{
			DisplayName: "Mac App Store",
			Category:    manager.CategoryOS,
			Platforms:   []manager.Platform{manager.PlatformDarwin},
			Requires:    []manager.CommandGroup{manager.Cmd("mas")},
		}, env),
		brew: brew,
	}
}

// IsInstallSupported reports whether Homebrew is available to install mas.
func (m *Mas) IsInstallSupported() bool {
	return m.HostReady() && m.brew != nil && m.brew.IsSupported()
}

func (m *Mas) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	out, err := m.output(ctx, "mas list")
	if err != nil {
		return false, err
	}
	return hasFirstField(out, ref.PackageName()), nil
}

func (m *Mas) Install(ctx context.Context, ref manager.Reference) error {
	return m.run(ctx, "mas install "+pkg(ref))
}

func (m *Mas) Update(ctx context.Context, ref manager.Reference) error {
	return m.run(ctx, "mas upgrade "+pkg(ref))
}

func (m *Mas) Uninstall(ctx context.Context, ref manager.Reference) error {
	return m.run(ctx, "mas uninstall "+pkg(ref))
}

// UpdateDatabase is a no-op: the App Store catalogue is always live.
func (m *Mas) UpdateDatabase(ctx context.Context) error {
	return nil
}

func (m *Mas) UpdateAll(ctx context.Context) error {
	return m.run(ctx, "mas upgrade")
}

// InstallSelf installs mas with Homebrew.
func (m *Mas) InstallSelf(ctx context.Context) error {
	if m.brew == nil || !m.brew.IsSupported() {
		return fmt.Errorf("mas: Homebrew is required to install mas: %w", manager.ErrNoCapableBackend)
	}
	return m.brew.Install(ctx, manager.ParseReference("mas"))
}
