package native

import (
	"context"

	"pwpm/pkg/manager"
)

// YUM implements the Manager interface for YUM on older RHEL-family systems.
type YUM struct {
	*BaseManager
}

// NewYUM creates a new YUM manager instance.
func NewYUM(env manager.Env) *YUM {
	return &YUM{
		BaseManager: NewBaseManager("yum", nil, manager.Capability{
			DisplayName:   "YUM (RHEL/CentOS)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("yum"), manager.Cmd("yum-config-manager")},
		}, env),
	}
}

func (y *YUM) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return y.Probe(ctx, "yum list installed "+pkg(ref))
}

func (y *YUM) Install(ctx context.Context, ref manager.Reference) error {
	return y.run(ctx, "yum install -y "+pkg(ref))
}

func (y *YUM) Update(ctx context.Context, ref manager.Reference) error {
	return y.run(ctx, "yum upgrade -y "+pkg(ref))
}

func (y *YUM) Uninstall(ctx context.Context, ref manager.Reference) error {
	return y.run(ctx, "yum remove -y "+pkg(ref))
}

// UpdateDatabase is a no-op: yum refreshes metadata on demand.
func (y *YUM) UpdateDatabase(ctx context.Context) error {
	return nil
}

func (y *YUM) UpdateAll(ctx context.Context) error {
	return y.run(ctx, "yum upgrade -y")
}

func (y *YUM) AddRepository(ctx context.Context, repo string) error {
	return y.run(ctx, "yum-config-manager --add-repo "+quote(repo))
}

// RepositoryKey reports that an added repository can't be removed: it is
// added by URL but disabled by repository id.
func (y *YUM) RepositoryKey(spec string) (string, bool) {
	return "", false
}

// RemoveRepository disables the repository; yum has no removal command.
func (y *YUM) RemoveRepository(ctx context.Context, repo string) error {
	return y.run(ctx, "yum-config-manager --disable "+quote(repo))
}
