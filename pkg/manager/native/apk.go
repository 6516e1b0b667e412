package native

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"pwpm/pkg/manager"
)

const apkRepositories = "/etc/apk/repositories"

// APK implements the Manager interface for Alpine Linux's apk package manager.
type APK struct {
	*BaseManager
	reposPath string
	readFile  func(string) ([]byte, error)
}

// NewAPK creates a new APK manager instance.
func NewAPK(env manager.Env) *APK {
	return &APK{
		BaseManager: NewBaseManager("apk", nil, manager.Capability{
			DisplayName:   "APK (Alpine Linux)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("apk")},
		}, env),
		reposPath: apkRepositories,
		readFile:  os.ReadFile,
	}
}

func (a *APK) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return a.Probe(ctx, "apk info -e "+pkg(ref))
}

func (a *APK) Install(ctx context.Context, ref manager.Reference) error {
	return a.run(ctx, "apk add "+pkg(ref))
}

func (a *APK) Update(ctx context.Context, ref manager.Reference) error {
	return a.run(ctx, "apk upgrade "+pkg(ref))
}

func (a *APK) Uninstall(ctx context.Context, ref manager.Reference) error {
	return a.run(ctx, "apk del "+pkg(ref))
}

func (a *APK) UpdateDatabase(ctx context.Context) error {
	return a.run(ctx, "apk update")
}

func (a *APK) UpdateAll(ctx context.Context) error {
	return a.run(ctx, "apk upgrade")
}

// AddRepository appends repo to /etc/apk/repositories and refreshes the index.
func (a *APK) AddRepository(ctx context.Context, repo string) error {
	repo = strings.TrimSpace(repo)
	lines, err := a.repositories()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line == repo {
			return fmt.Errorf("apk: repository %q already present in %s", repo, a.reposPath)
		}
	}

	if err := a.writeRepositories(ctx, append(lines, repo)); err != nil {
		return err
	}
	return a.UpdateDatabase(ctx)
}

// RemoveRepository deletes every line equal to repo.
func (a *APK) RemoveRepository(ctx context.Context, repo string) error {
	repo = strings.TrimSpace(repo)
	lines, err := a.repositories()
	if err != nil {
		return err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line != repo {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return fmt.Errorf("apk: repository %q not found in %s", repo, a.reposPath)
	}
	return a.writeRepositories(ctx, kept)
}

func (a *APK) repositories() ([]string, error) {
	data, err := a.readFile(a.reposPath)
	if err != nil {
		return nil, fmt.Errorf("apk: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	return lines, scanner.Err()
}

func (a *APK) writeRepositories(ctx context.Context, lines []string) error {
	data := []byte(strings.Join(lines, "\n") + "\n")
	if err := a.env.Runner.WriteFile(ctx, a.reposPath, data, true); err != nil {
		return fmt.Errorf("apk: %w", err)
	}
	return nil
}
