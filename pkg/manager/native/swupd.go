package native

import (
	"context"

	"pwpm/pkg/manager"
)

// Swupd implements the Manager interface for Clear Linux's swupd. Packages
// are bundles.
type Swupd struct {
	*BaseManager
}

// NewSwupd creates a new Swupd manager instance.
func NewSwupd(env manager.Env) *Swupd {
	return &Swupd{
		BaseManager: NewBaseManager("swupd", nil, manager.Capability{
			DisplayName:   "swupd (Clear Linux)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("swupd")},
		}, env),
	}
}

func (s *Swupd) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	out, err := s.output(ctx, "swupd bundle-list")
	if err != nil {
		return false, err
	}
	return hasLine(out, ref.PackageName()), nil
}

func (s *Swupd) Install(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "swupd bundle-add "+pkg(ref))
}

// Update updates the whole OS: bundles are versioned together.
func (s *Swupd) Update(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "swupd update")
}

func (s *Swupd) Uninstall(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "swupd bundle-remove "+pkg(ref))
}

// UpdateDatabase checks for a new OS version. check-update exits 1 when
// the system is already current.
func (s *Swupd) UpdateDatabase(ctx context.Context) error {
	return s.run(ctx, "swupd check-update", 0, 1)
}

func (s *Swupd) UpdateAll(ctx context.Context) error {
	return s.run(ctx, "swupd update")
}
