package native

import (
	"context"

	"pwpm/pkg/manager"
)

const (
	wingetAgreements = "--accept-source-agreements --accept-package-agreements"

	wingetInstaller = `powershell.exe -NoProfile -ExecutionPolicy Bypass -Command "Get-AppxPackage Microsoft.DesktopAppInstaller | Foreach {Add-AppxPackage -DisableDevelopmentMode -Register \"$($_.InstallLocation)\AppXManifest.xml\"}"`
)

// Winget implements the Manager interface for Windows Package Manager.
type Winget struct {
	*BaseManager
}

// NewWinget creates a new Winget manager instance.
func NewWinget(env manager.Env) *Winget {
	return &Winget{
		BaseManager: NewBaseManager("winget", []string{"winget", "win", "windows"}, manager.Capability{
			DisplayName:   "Windows Package Manager",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformWindows},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("winget")},
		}, env),
	}
}

// IsInstallSupported is true wherever winget could run: App Installer ships
// with Windows and only needs registering.
func (w *Winget) IsInstallSupported() bool {
	return w.HostReady()
}

func (w *Winget) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return w.Probe(ctx, "winget list "+pkg(ref))
}

func (w *Winget) Install(ctx context.Context, ref manager.Reference) error {
	return w.run(ctx, "winget install "+wingetAgreements+" "+pkg(ref))
}

func (w *Winget) Update(ctx context.Context, ref manager.Reference) error {
	return w.run(ctx, "winget upgrade "+wingetAgreements+" "+pkg(ref))
}

func (w *Winget) Uninstall(ctx context.Context, ref manager.Reference) error {
	return w.run(ctx, "winget uninstall "+wingetAgreements+" "+pkg(ref))
}

func (w *Winget) UpdateDatabase(ctx context.Context) error {
	return w.run(ctx, "winget source update")
}

func (w *Winget) UpdateAll(ctx context.Context) error {
	return w.run(ctx, "winget upgrade --all "+wingetAgreements)
}

// AddRepository registers a source given as "<name> <url>".
func (w *Winget) AddRepository(ctx context.Context, repo string) error {
	name, url, err := splitRepo(w.name, repo)
	if err != nil {
		return err
	}
	return w.run(ctx, "winget source add --name "+quote(name)+" "+quote(url))
}

// RepositoryKey returns the name a repository is removed by.
func (w *Winget) RepositoryKey(spec string) (string, bool) {
	return nameKey(spec)
}

func (w *Winget) RemoveRepository(ctx context.Context, repo string) error {
	return w.run(ctx, "winget source remove --name "+quote(repo))
}

// InstallSelf re-registers the App Installer package that provides winget.
func (w *Winget) InstallSelf(ctx context.Context) error {
	return w.run(ctx, wingetInstaller)
}
