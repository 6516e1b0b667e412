package native

import (
	"context"
	"errors"
	"fmt"

	"pwpm/pkg/manager"
)

// DNF implements the Manager interface for Fedora/RHEL's DNF package manager.
type DNF struct {
	*BaseManager
}

// NewDNF creates a new DNF manager instance.
func NewDNF(env manager.Env) *DNF {
	return &DNF{
		BaseManager: NewBaseManager("dnf", nil, manager.Capability{
			DisplayName:   "DNF (Fedora/RHEL)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("dnf")},
		}, env),
	}
}

func (d *DNF) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return d.Probe(ctx, "dnf list installed "+pkg(ref))
}

// Install installs a package. dnf exits 1 when nothing matches, which usually
// means the package lives in a repository that isn't enabled yet.
func (d *DNF) Install(ctx context.Context, ref manager.Reference) error {
	err := d.run(ctx, "dnf install -y "+pkg(ref))

	var execErr *manager.ExecError
	if errors.As(err, &execErr) && execErr.Err == nil && execErr.ExitCode == 1 {
		return fmt.Errorf("%w (package may need an extra repository, e.g. 'pwpm add-package-db -p dnf <repo-url>')", err)
	}
	return err
}

func (d *DNF) Update(ctx context.Context, ref manager.Reference) error {
	return d.run(ctx, "dnf upgrade -y "+pkg(ref))
}

func (d *DNF) Uninstall(ctx context.Context, ref manager.Reference) error {
	return d.run(ctx, "dnf remove -y "+pkg(ref))
}

// UpdateDatabase is a no-op: dnf refreshes metadata on demand.
func (d *DNF) UpdateDatabase(ctx context.Context) error {
	return nil
}

func (d *DNF) UpdateAll(ctx context.Context) error {
	return d.run(ctx, "dnf upgrade -y")
}

func (d *DNF) AddRepository(ctx context.Context, repo string) error {
	return d.run(ctx, "dnf config-manager --add-repo "+quote(repo))
}

// RepositoryKey reports that an added repository can't be removed: it is
// added by URL but disabled by repository id.
func (d *DNF) RepositoryKey(spec string) (string, bool) {
	return "", false
}

func (d *DNF) RemoveRepository(ctx context.Context, repo string) error {
	return d.run(ctx, "dnf config-manager --set-disabled "+quote(repo))
}
