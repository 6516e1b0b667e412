package native

import (
	"context"
	"strings"

	"pwpm/pkg/manager"
)

// Zypper implements the Manager interface for openSUSE's zypper package manager.
type Zypper struct {
	*BaseManager
}

// NewZypper creates a new Zypper manager instance.
func NewZypper(env manager.Env) *Zypper {
	return &Zypper{
		BaseManager: NewBaseManager("zypper", nil, manager.Capability{
			DisplayName:   "Zypper (openSUSE)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("zypper")},
		}, env),
	}
}

func (z *Zypper) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return z.Probe(ctx, "rpm -q "+pkg(ref))
}

func (z *Zypper) Install(ctx context.Context, ref manager.Reference) error {
	return z.run(ctx, "zypper --non-interactive install "+pkg(ref))
}

func (z *Zypper) Update(ctx context.Context, ref manager.Reference) error {
	return z.run(ctx, "zypper --non-interactive update "+pkg(ref))
}

func (z *Zypper) Uninstall(ctx context.Context, ref manager.Reference) error {
	return z.run(ctx, "zypper --non-interactive remove "+pkg(ref))
}

func (z *Zypper) UpdateDatabase(ctx context.Context) error {
	return z.run(ctx, "zypper --non-interactive refresh")
}

func (z *Zypper) UpdateAll(ctx context.Context) error {
	return z.runAll(ctx,
		"zypper --non-interactive refresh",
		"zypper --non-interactive update",
	)
}

// AddRepository registers a repository. repo is "<url> <alias>" or a bare
// .repo file URL.
func (z *Zypper) AddRepository(ctx context.Context, repo string) error {
	return z.run(ctx, "zypper --non-interactive addrepo --refresh "+quoteFields(repo))
}

// RepositoryKey returns the alias of a "<uri> <alias>" spec.
func (z *Zypper) RepositoryKey(spec string) (string, bool) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}

func (z *Zypper) RemoveRepository(ctx context.Context, repo string) error {
	return z.run(ctx, "zypper --non-interactive removerepo "+quote(repo))
}
