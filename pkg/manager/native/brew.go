package native

import (
	"context"

	"pwpm/pkg/manager"
)

const brewInstaller = `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`

// Brew implements the Manager interface for Homebrew formulae.
// Homebrew refuses to run as root.
type Brew struct {
	*BaseManager
}

// NewBrew creates a new Brew manager instance.
func NewBrew(env manager.Env) *Brew {
	return &Brew{
		BaseManager: NewBaseManager("brew", []string{"brew", "homebrew"}, manager.Capability{
			DisplayName:           "Homebrew",
			Category:              manager.CategoryCrossPlatform,
			Platforms:             []manager.Platform{manager.PlatformLinux, manager.PlatformDarwin},
			IncompatibleWithAdmin: true,
			Requires:              []manager.CommandGroup{manager.Cmd("brew")},
		}, env),
	}
}

// IsInstallSupported reports whether the install script can run here.
func (b *Brew) IsInstallSupported() bool {
	return b.HostReady("curl", "bash")
}

func (b *Brew) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return b.Probe(ctx, "brew ls --versions "+pkg(ref))
}

func (b *Brew) Install(ctx context.Context, ref manager.Reference) error {
	return b.run(ctx, "brew install "+pkg(ref))
}

func (b *Brew) Update(ctx context.Context, ref manager.Reference) error {
	return b.run(ctx, "brew upgrade "+pkg(ref))
}

func (b *Brew) Uninstall(ctx context.Context, ref manager.Reference) error {
	return b.run(ctx, "brew uninstall "+pkg(ref))
}

func (b *Brew) UpdateDatabase(ctx context.Context) error {
	return b.run(ctx, "brew update")
}

func (b *Brew) UpdateAll(ctx context.Context) error {
	return b.runAll(ctx,
		"brew update",
		"brew upgrade",
	)
}

func (b *Brew) InstallSelf(ctx context.Context) error {
	return b.run(ctx, brewInstaller)
}

// BrewCask implements the Manager interface for Homebrew casks on macOS.
type BrewCask struct {
	*BaseManager
}

// NewBrewCask creates a new BrewCask manager instance.
func NewBrewCask(env manager.Env) *BrewCask {
	return &BrewCask{
		BaseManager: NewBaseManager("brew-cask", []string{"brew-cask", "cask", "brew"}, manager.Capability{
			DisplayName:           "Homebrew Cask (macOS)",
			Category:              manager.CategoryOS,
			Platforms:             []manager.Platform{manager.PlatformDarwin},
			IncompatibleWithAdmin: true,
			Requires:              []manager.CommandGroup{manager.Cmd("brew")},
		}, env),
	}
}

// IsInstallSupported reports whether the Homebrew install script can run here.
func (c *BrewCask) IsInstallSupported() bool {
	return c.HostReady("curl", "bash")
}

func (c *BrewCask) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return c.Probe(ctx, "brew ls --versions --cask "+pkg(ref))
}

func (c *BrewCask) Install(ctx context.Context, ref manager.Reference) error {
	return c.run(ctx, "brew install --cask "+pkg(ref))
}

func (c *BrewCask) Update(ctx context.Context, ref manager.Reference) error {
	return c.run(ctx, "brew upgrade --cask "+pkg(ref))
}

func (c *BrewCask) Uninstall(ctx context.Context, ref manager.Reference) error {
	return c.run(ctx, "brew uninstall --cask "+pkg(ref))
}

func (c *BrewCask) UpdateDatabase(ctx context.Context) error {
	return c.run(ctx, "brew update")
}

func (c *BrewCask) UpdateAll(ctx context.Context) error {
	return c.runAll(ctx,
		"brew update",
		"brew upgrade --cask",
	)
}

// AddRepository taps a repository, e.g. "homebrew/cask-fonts".
func (c *BrewCask) AddRepository(ctx context.Context, repo string) error {
	return c.run(ctx, "brew tap "+quoteFields(repo))
}

// RepositoryKey returns the name a repository is removed by.
func (c *BrewCask) RepositoryKey(spec string) (string, bool) {
	return nameKey(spec)
}

func (c *BrewCask) RemoveRepository(ctx context.Context, repo string) error {
	return c.run(ctx, "brew untap "+quote(repo))
}

func (c *BrewCask) InstallSelf(ctx context.Context) error {
	return c.run(ctx, brewInstaller)
}
