package native

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"pwpm/pkg/manager"
)

const scoopInstaller = `powershell.exe -NoProfile -ExecutionPolicy Bypass -Command "irm get.scoop.sh | iex"`

// Scoop implements the Manager interface for Scoop on Windows.
type Scoop struct {
	*BaseManager
	appsDir string
}

// NewScoop creates a new Scoop manager instance.
func NewScoop(env manager.Env) *Scoop {
	appsDir, err := homedir.Expand(filepath.Join("~", "scoop", "apps"))
	if err != nil {
		appsDir = ""
	}

	return &Scoop{
		BaseManager: NewBaseManager("scoop", nil, manager.Capability{
			DisplayName: "Scoop",
			Category:    manager.CategoryGeneral,
			Platforms:   []manager.Platform{manager.PlatformWindows},
			Requires:    []manager.CommandGroup{manager.Cmd("scoop")},
		}, env),
		appsDir: appsDir,
	}
}

// IsInstallSupported is true on any Windows host; the installer only needs PowerShell.
func (s *Scoop) IsInstallSupported() bool {
	return s.HostReady()
}

// IsInstalled looks for the app's directory under ~/scoop/apps, since scoop
// has no query that reports through its exit code.
func (s *Scoop) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	name, ok := scoopAppName(ref.PackageName())
	if !ok || s.appsDir == "" {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(s.appsDir, name))
	return err == nil && info.IsDir(), nil
}

// scoopAppName reduces "bucket/app@version" to "app". URLs and manifest
// paths have no recoverable app name.
func scoopAppName(raw string) (string, bool) {
	if raw == "" || strings.Contains(raw, "://") || strings.ContainsAny(raw, `\`) {
		return "", false
	}

	parts := strings.Split(raw, "/")
	switch len(parts) {
	case 1:
	case 2:
		raw = parts[1]
	default:
		return "", false
	}

	name, _, _ := strings.Cut(raw, "@")
	return name, name != ""
}

func (s *Scoop) Install(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "scoop install "+pkg(ref))
}

func (s *Scoop) Update(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "scoop update "+pkg(ref))
}

func (s *Scoop) Uninstall(ctx context.Context, ref manager.Reference) error {
	return s.run(ctx, "scoop uninstall "+pkg(ref))
}

// UpdateDatabase is a no-op: buckets are refreshed by UpdateAll.
func (s *Scoop) UpdateDatabase(ctx context.Context) error {
	return nil
}

func (s *Scoop) UpdateAll(ctx context.Context) error {
	return s.run(ctx, "scoop update --all")
}

// AddRepository adds a bucket, given as "<name>" or "<name> <url>".
func (s *Scoop) AddRepository(ctx context.Context, repo string) error {
	return s.run(ctx, "scoop bucket add "+quoteFields(repo))
}

// RepositoryKey returns the name a repository is removed by.
func (s *Scoop) RepositoryKey(spec string) (string, bool) {
	return nameKey(spec)
}

func (s *Scoop) RemoveRepository(ctx context.Context, repo string) error {
	return s.run(ctx, "scoop bucket rm "+quote(repo))
}

func (s *Scoop) InstallSelf(ctx context.Context) error {
	return s.run(ctx, scoopInstaller)
}
