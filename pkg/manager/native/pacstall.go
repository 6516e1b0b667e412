package native

import (
	"context"

	"pwpm/pkg/manager"
)

const pacstallInstaller = `/bin/bash -c "$(curl -fsSL https://git.io/JsADh || wget -q https://git.io/JsADh -O -)"`

// Pacstall implements the Manager interface for Pacstall, the AUR-like
// package manager for Ubuntu.
type Pacstall struct {
	*BaseManager
}

// NewPacstall creates a new Pacstall manager instance.
func NewPacstall(env manager.Env) *Pacstall {
	return &Pacstall{
		BaseManager: NewBaseManager("pacstall", nil, manager.Capability{
			DisplayName:   "Pacstall (Ubuntu)",
			Category:      manager.CategoryGeneral,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("pacstall")},
		}, env),
	}
}

// IsInstallSupported reports whether the install script can run here.
func (p *Pacstall) IsInstallSupported() bool {
	return p.HostReady("curl", "bash")
}

func (p *Pacstall) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return p.Probe(ctx, "pacstall -Qi "+pkg(ref))
}

func (p *Pacstall) Install(ctx context.Context, ref manager.Reference) error {
	return p.run(ctx, "pacstall -I "+pkg(ref))
}

// Update reinstalls the package, which builds the latest pacscript.
func (p *Pacstall) Update(ctx context.Context, ref manager.Reference) error {
	return p.run(ctx, "pacstall -I "+pkg(ref))
}

func (p *Pacstall) Uninstall(ctx context.Context, ref manager.Reference) error {
	return p.run(ctx, "pacstall -R "+pkg(ref))
}

// UpdateDatabase is a no-op: pacscripts are fetched on demand.
func (p *Pacstall) UpdateDatabase(ctx context.Context) error {
	return nil
}

func (p *Pacstall) UpdateAll(ctx context.Context) error {
	return p.run(ctx, "pacstall -Up")
}

func (p *Pacstall) AddRepository(ctx context.Context, repo string) error {
	return p.run(ctx, "pacstall -A "+quote(repo))
}

// RepositoryKey reports that pacstall repositories can't be removed.
func (p *Pacstall) RepositoryKey(spec string) (string, bool) {
	return "", false
}

func (p *Pacstall) InstallSelf(ctx context.Context) error {
	return p.run(ctx, pacstallInstaller)
}
