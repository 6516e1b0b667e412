package native

import (
	"context"

	"pwpm/pkg/manager"
)

const nixInstaller = "curl -L https://nixos.org/nix/install | sh -s -- --daemon"

// Nix implements the Manager interface for the Nix package manager. Packages
// are attribute paths, e.g. nixpkgs.hello.
type Nix struct {
	*BaseManager
}

// NewNix creates a new Nix manager instance.
func NewNix(env manager.Env) *Nix {
	return &Nix{
		BaseManager: NewBaseManager("nix", nil, manager.Capability{
			DisplayName:   "Nix",
			Category:      manager.CategoryCrossPlatform,
			Platforms:     []manager.Platform{manager.PlatformLinux, manager.PlatformDarwin},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("nix-env"), manager.Cmd("nix-channel")},
		}, env),
	}
}

// IsInstallSupported reports whether the install script can run here.
func (n *Nix) IsInstallSupported() bool {
	return n.HostReady("curl", "sh")
}

func (n *Nix) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return n.Probe(ctx, "nix-env -q "+pkg(ref))
}

func (n *Nix) Install(ctx context.Context, ref manager.Reference) error {
	return n.run(ctx, "nix-env -iA "+pkg(ref))
}

func (n *Nix) Update(ctx context.Context, ref manager.Reference) error {
	return n.run(ctx, "nix-env -uA "+pkg(ref))
}

func (n *Nix) Uninstall(ctx context.Context, ref manager.Reference) error {
	return n.run(ctx, "nix-env --uninstall "+pkg(ref))
}

func (n *Nix) UpdateDatabase(ctx context.Context) error {
	return n.run(ctx, "nix-channel --update")
}

func (n *Nix) UpdateAll(ctx context.Context) error {
	return n.runAll(ctx,
		"nix-channel --update",
		"nix-env -u '*'",
	)
}

// AddRepository subscribes to a channel given as "<name> <url>".
func (n *Nix) AddRepository(ctx context.Context, repo string) error {
	name, url, err := splitRepo(n.name, repo)
	if err != nil {
		return err
	}
	return n.runAll(ctx,
		"nix-channel --add "+quote(url)+" "+quote(name),
		"nix-channel --update",
	)
}

// RepositoryKey returns the name a repository is removed by.
func (n *Nix) RepositoryKey(spec string) (string, bool) {
	return nameKey(spec)
}

func (n *Nix) RemoveRepository(ctx context.Context, repo string) error {
	return n.run(ctx, "nix-channel --remove "+quote(repo))
}

func (n *Nix) InstallSelf(ctx context.Context) error {
	return n.run(ctx, nixInstaller)
}
