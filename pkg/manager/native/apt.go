package native

import (
	"context"
	"fmt"

	"pwpm/pkg/manager"
)

// APT implements the Manager interface for Debian/Ubuntu's APT package manager.
// The front-end command is picked once, preferring nala when enabled.
type APT struct {
	*BaseManager
	frontend *manager.CommandResolver
}

// NewAPT creates a new APT manager instance.
func NewAPT(env manager.Env, useNala bool) *APT {
	candidates := []string{"apt", "apt-get"}
	if useNala {
		candidates = append([]string{"nala"}, candidates...)
	}

	return &APT{
		BaseManager: NewBaseManager("apt", []string{"apt", "nala", "apt-get"}, manager.Capability{
			DisplayName:   "APT (Debian/Ubuntu)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires: []manager.CommandGroup{
				manager.Cmd("dpkg"),
				manager.Cmd("add-apt-repository"),
				manager.OneOf(candidates...),
			},
		}, env),
		frontend: manager.NewCommandResolver(candidates...),
	}
}

// Frontend returns the command used for package operations.
func (a *APT) Frontend() string {
	cmd, _ := a.frontend.Resolve(a.env.Runner)
	return cmd
}

func (a *APT) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return a.Probe(ctx, "dpkg --verify "+pkg(ref))
}

func (a *APT) Install(ctx context.Context, ref manager.Reference) error {
	return a.run(ctx, fmt.Sprintf("%s install -y %s", a.Frontend(), pkg(ref)))
}

func (a *APT) Update(ctx context.Context, ref manager.Reference) error {
	return a.run(ctx, fmt.Sprintf("%s upgrade -y %s", a.Frontend(), pkg(ref)))
}

func (a *APT) Uninstall(ctx context.Context, ref manager.Reference) error {
	return a.run(ctx, fmt.Sprintf("%s remove -y %s", a.Frontend(), pkg(ref)))
}

func (a *APT) UpdateDatabase(ctx context.Context) error {
	return a.run(ctx, a.Frontend()+" update -y")
}

// UpdateAll refreshes the index, upgrades everything and drops orphaned dependencies.
func (a *APT) UpdateAll(ctx context.Context) error {
	fe := a.Frontend()
	return a.runAll(ctx,
		fe+" update -y",
		fe+" upgrade -y",
		fe+" autoremove -y",
	)
}

func (a *APT) AddRepository(ctx context.Context, repo string) error {
	return a.run(ctx, "add-apt-repository -y "+quote(repo))
}

func (a *APT) RemoveRepository(ctx context.Context, repo string) error {
	return a.run(ctx, "add-apt-repository -y --remove "+quote(repo))
}
