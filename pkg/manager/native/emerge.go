package native

import (
	"context"
	"strings"

	"pwpm/pkg/manager"
)

// Emerge implements the Manager interface for Gentoo's Portage.
type Emerge struct {
	*BaseManager
}

// NewEmerge creates a new Emerge manager instance.
func NewEmerge(env manager.Env) *Emerge {
	return &Emerge{
		BaseManager: NewBaseManager("emerge", []string{"emerge", "portage"}, manager.Capability{
			DisplayName:   "Portage (Gentoo)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("emerge")},
		}, env),
	}
}

// IsInstalled asks qlist when portage-utils is present and falls back to
// the package database directory.
func (e *Emerge) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	name := pkg(ref)
	if e.env.Runner.Exists("qlist") {
		out, err := e.output(ctx, "qlist -IC "+name)
		if err != nil {
			return false, nil
		}
		return strings.TrimSpace(out) != "", nil
	}
	return e.Probe(ctx, "ls -d /var/db/pkg/*/"+name+"-[0-9]*")
}

func (e *Emerge) Install(ctx context.Context, ref manager.Reference) error {
	return e.run(ctx, "emerge --ask=n "+pkg(ref))
}

func (e *Emerge) Update(ctx context.Context, ref manager.Reference) error {
	return e.run(ctx, "emerge --ask=n --update "+pkg(ref))
}

func (e *Emerge) Uninstall(ctx context.Context, ref manager.Reference) error {
	return e.run(ctx, "emerge --ask=n --depclean "+pkg(ref))
}

func (e *Emerge) UpdateDatabase(ctx context.Context) error {
	return e.run(ctx, "emerge --sync")
}

func (e *Emerge) UpdateAll(ctx context.Context) error {
	return e.runAll(ctx,
		"emerge --sync",
		"emerge --ask=n -uDN @world",
	)
}

// AddRepository enables an overlay from the repositories list.
func (e *Emerge) AddRepository(ctx context.Context, repo string) error {
	return e.run(ctx, "eselect repository enable "+quote(repo))
}

func (e *Emerge) RemoveRepository(ctx context.Context, repo string) error {
	return e.run(ctx, "eselect repository remove "+quote(repo))
}
