package native

import (
	"context"

	"pwpm/pkg/manager"
)

// Slackpkg implements the Manager interface for Slackware's slackpkg.
type Slackpkg struct {
	*BaseManager
}

// NewSlackpkg creates a new Slackpkg manager instance.
func NewSlackpkg(env manager.Env) *Slackpkg {
	return &Slackpkg{
		BaseManager: NewBaseManager("slackpkg", nil, manager.Capability{
			DisplayName:   "Slackpkg (Slackware)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("slackpkg")},
		}, env),
	}
}

func (s *Slackpkg) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	out, err := s.output(ctx, "ls /var/log/packages/")
	if err != nil {
		return false, err
	}
	return hasSlackPackage(out, ref.PackageName()), nil
}

func (s *Slackpkg) Install(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "slackpkg -batch=on -default_answer=y install "+pkg(ref))
}

func (s *Slackpkg) Update(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "slackpkg -batch=on -default_answer=y upgrade "+pkg(ref))
}

func (s *Slackpkg) Uninstall(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "slackpkg -batch=on -default_answer=y remove "+pkg(ref))
}

func (s *Slackpkg) UpdateDatabase(ctx context.Context) error {
	return s.run(ctx, "slackpkg -batch=on update")
}

func (s *Slackpkg) UpdateAll(ctx context.Context) error {
	return s.runAll(ctx,
		"slackpkg -batch=on update",
		"slackpkg -batch=on -default_answer=y upgrade-all",
	)
}
