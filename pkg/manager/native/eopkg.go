package native

import (
	"context"

	"pwpm/pkg/manager"
)

// Eopkg implements the Manager interface for Solus's eopkg package manager.
type Eopkg struct {
	*BaseManager
}

// NewEopkg creates a new Eopkg manager instance.
func NewEopkg(env manager.Env) *Eopkg {
	return &Eopkg{
		BaseManager: NewBaseManager("eopkg", nil, manager.Capability{
			DisplayName:   "eopkg (Solus)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("eopkg")},
		}, env),
	}
}

// IsInstalled matches the package against the installed list; eopkg has no
// dedicated query that reports through its exit code.
func (e *Eopkg) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	out, err := e.output(ctx, "eopkg list-installed")
	if err != nil {
		return false, err
	}
	return hasFirstField(out, ref.PackageName()), nil
}

func (e *Eopkg) Install(ctx context.Context, ref manager.Reference) error {
	return e.run(ctx, "eopkg install -y "+pkg(ref))
}

func (e *Eopkg) Update(ctx context.Context, ref manager.Reference) error {
	return e.run(ctx, "eopkg upgrade -y "+pkg(ref))
}

func (e *Eopkg) Uninstall(ctx context.Context, ref manager.Reference) error {
	return e.run(ctx, "eopkg remove -y "+pkg(ref))
}

func (e *Eopkg) UpdateDatabase(ctx context.Context) error {
	return e.run(ctx, "eopkg update-repo")
}

func (e *Eopkg) UpdateAll(ctx context.Context) error {
	return e.runAll(ctx,
		"eopkg upgrade -y",
		"eopkg remove-orphans -y",
	)
}

// AddRepository registers a repository given as "<name> <url>".
func (e *Eopkg) AddRepository(ctx context.Context, repo string) error {
	name, url, err := splitRepo(e.name, repo)
	if err != nil {
		return err
	}
	return e.run(ctx, "eopkg add-repo "+quote(name)+" "+quote(url))
}

// RepositoryKey returns the name a repository is removed by.
func (e *Eopkg) RepositoryKey(spec string) (string, bool) {
	return nameKey(spec)
}

func (e *Eopkg) RemoveRepository(ctx context.Context, repo string) error {
	return e.run(ctx, "eopkg remove-repo "+quote(repo))
}
