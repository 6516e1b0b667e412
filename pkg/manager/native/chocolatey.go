package native

import (
	"bufio"
	"context"
	"strings"
	"sync"

	"pwpm/pkg/manager"
)

const chocolateyInstaller = `powershell.exe -NoProfile -ExecutionPolicy Bypass -Command "[System.Net.ServicePointManager]::SecurityProtocol = [System.Net.ServicePointManager]::SecurityProtocol -bor 3072;iex ((New-Object System.Net.WebClient).DownloadString('https://community.chocolatey.org/install.ps1'))"`

// Exit codes choco reports for a successful change that wants a reboot.
var chocolateyChanged = []int{0, 1641, 3010}

// Chocolatey implements the Manager interface for Chocolatey.
type Chocolatey struct {
	*BaseManager

	// enhanced makes `choco info` exit 2 for packages that aren't installed.
	enhanced   bool
	enableOnce sync.Once
	enableErr  error
}

// NewChocolatey creates a new Chocolatey manager instance.
func NewChocolatey(env manager.Env, enhancedExitCodes bool) *Chocolatey {
	return &Chocolatey{
		BaseManager: NewBaseManager("chocolatey", []string{"choco", "chocolatey"}, manager.Capability{
			DisplayName:   "Chocolatey",
			Category:      manager.CategoryGeneral,
			Platforms:     []manager.Platform{manager.PlatformWindows},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("choco")},
		}, env),
		enhanced: enhancedExitCodes,
	}
}

// IsInstallSupported reports whether the bootstrap script can run here.
func (c *Chocolatey) IsInstallSupported() bool {
	return c.HostReady()
}

func (c *Chocolatey) enableEnhancedExitCodes(ctx context.Context) error {
	c.enableOnce.Do(func() {
		c.enableErr = c.run(ctx, `choco feature enable -y --name="useEnhancedExitCodes"`)
	})
	return c.enableErr
}

// IsInstalled queries the local package list. With enhanced exit codes exit
// 2 means absent; otherwise the limited output decides.
func (c *Chocolatey) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	name := ref.PackageName()
	command := "choco info -lry " + quote(name)

	if !c.enhanced {
		out, err := c.output(ctx, command)
		if err != nil {
			return false, err
		}
		return hasChocoPackage(out, name), nil
	}

	if err := c.enableEnhancedExitCodes(ctx); err != nil {
		return false, err
	}
	out, code, err := c.env.Runner.Output(ctx, command, false)
	switch {
	case err != nil:
		return false, &manager.ExecError{Backend: c.name, Command: command, ExitCode: code, Err: err}
	case code == 0:
		// Without the feature (e.g. its enabling was a dry run) choco exits
		// 0 either way, so the listing decides.
		return hasChocoPackage(out, name), nil
	case code == 2:
		return false, nil
	}
	return false, &manager.ExecError{Backend: c.name, Command: command, ExitCode: code}
}

// hasChocoPackage scans `-r` output, which is one "name|version" per line.
func hasChocoPackage(out, name string) bool {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		id, _, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "|")
		if ok && strings.EqualFold(id, name) {
			return true
		}
	}
	return false
}

func (c *Chocolatey) Install(ctx context.Context, ref manager.Reference) error {
	return c.run(ctx, "choco install -y "+pkg(ref), chocolateyChanged...)
}

func (c *Chocolatey) Update(ctx context.Context, ref manager.Reference) error {
	return c.run(ctx, "choco upgrade -y "+pkg(ref), chocolateyChanged...)
}

func (c *Chocolatey) Uninstall(ctx context.Context, ref manager.Reference) error {
	return c.run(ctx, "choco uninstall -y "+pkg(ref), chocolateyChanged...)
}

// UpdateDatabase is a no-op: sources are queried live.
func (c *Chocolatey) UpdateDatabase(ctx context.Context) error {
	return nil
}

func (c *Chocolatey) UpdateAll(ctx context.Context) error {
	return c.run(ctx, "choco upgrade -y all", chocolateyChanged...)
}

// AddRepository registers a source given as "<name> <url>".
func (c *Chocolatey) AddRepository(ctx context.Context, repo string) error {
	name, url, err := splitRepo(c.name, repo)
	if err != nil {
		return err
	}
	return c.run(ctx, "choco source add -n="+quote(name)+" -s="+quote(url))
}

// RepositoryKey returns the name a repository is removed by.
func (c *Chocolatey) RepositoryKey(spec string) (string, bool) {
	return nameKey(spec)
}

func (c *Chocolatey) RemoveRepository(ctx context.Context, repo string) error {
	return c.run(ctx, "choco source remove -n="+quote(repo))
}

func (c *Chocolatey) InstallSelf(ctx context.Context) error {
	return c.run(ctx, chocolateyInstaller)
}
