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

const pacmanConf = "/etc/pacman.conf"

// Pacman implements the Manager interface for Arch Linux's pacman package manager.
type Pacman struct {
	*BaseManager
	confPath string
	readFile func(string) ([]byte, error)
}

// NewPacman creates a new Pacman manager instance.
func NewPacman(env manager.Env) *Pacman {
	return &Pacman{
		BaseManager: NewBaseManager("pacman", nil, manager.Capability{
			DisplayName:   "Pacman (Arch Linux)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires:      []manager.CommandGroup{manager.Cmd("pacman")},
		}, env),
		confPath: pacmanConf,
		readFile: os.ReadFile,
	}
}

func (p *Pacman) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return p.Probe(ctx, "pacman -Qi "+pkg(ref))
}

// Install syncs the databases and upgrades the system along with the
// package, since Arch doesn't support partial upgrades.
func (p *Pacman) Install(ctx context.Context, ref manager.Reference) error {
	return p.run(ctx, "pacman -Syu --noconfirm "+pkg(ref))
}

func (p *Pacman) Update(ctx context.Context, ref manager.Reference) error {
	return p.run(ctx, "pacman -Syu --noconfirm "+pkg(ref))
}

func (p *Pacman) Uninstall(ctx context.Context, ref manager.Reference) error {
	return p.run(ctx, "pacman -R --noconfirm "+pkg(ref))
}

func (p *Pacman) UpdateDatabase(ctx context.Context) error {
	return p.run(ctx, "pacman -Syy")
}

func (p *Pacman) UpdateAll(ctx context.Context) error {
	return p.run(ctx, "pacman -Syu --noconfirm")
}

// AddRepository appends a section to pacman.conf and refreshes the databases.
// repo is "<name> <server-url>...". Signing keys must be trusted separately
// with TrustKey.
func (p *Pacman) AddRepository(ctx context.Context, repo string) error {
	fields := strings.Fields(repo)
	if len(fields) < 2 {
		return fmt.Errorf(`pacman: repository must be given as "<name> <server-url>...", got %q`, repo)
	}

	conf, err := p.readFile(p.confPath)
	if err != nil {
		return fmt.Errorf("pacman: %w", err)
	}
	if hasPacmanRepo(conf, fields[0]) {
		return fmt.Errorf("pacman: repository %q already exists in %s", fields[0], p.confPath)
	}

	conf = appendPacmanRepo(conf, fields[0], fields[1:])
	if err := p.env.Runner.WriteFile(ctx, p.confPath, conf, true); err != nil {
		return fmt.Errorf("pacman: %w", err)
	}
	return p.UpdateDatabase(ctx)
}

// RemoveRepository deletes the named section from pacman.conf.
// RepositoryKey returns the name a repository is removed by.
func (p *Pacman) RepositoryKey(spec string) (string, bool) {
	return nameKey(spec)
}

func (p *Pacman) RemoveRepository(ctx context.Context, repo string) error {
	conf, err := p.readFile(p.confPath)
	if err != nil {
		return fmt.Errorf("pacman: %w", err)
	}

	updated, found := removePacmanRepo(conf, strings.TrimSpace(repo))
	if !found {
		return fmt.Errorf("pacman: repository %q not found in %s", repo, p.confPath)
	}
	if err := p.env.Runner.WriteFile(ctx, p.confPath, updated, true); err != nil {
		return fmt.Errorf("pacman: %w", err)
	}
	return nil
}

// TrustKey receives a signing key, prints its fingerprint and signs it locally.
func (p *Pacman) TrustKey(ctx context.Context, keyID string) error {
	key := quote(keyID)
	return p.runAll(ctx,
		"pacman-key --recv-keys "+key,
		"pacman-key --finger "+key,
		"pacman-key --lsign-key "+key,
	)
}

func appendPacmanRepo(conf []byte, name string, servers []string) []byte {
	var buf bytes.Buffer
	buf.Write(conf)
	if len(conf) > 0 && !bytes.HasSuffix(conf, []byte("\n")) {
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "\n[%s]\n", name)
	for _, server := range servers {
		fmt.Fprintf(&buf, "Server = %s\n", server)
	}
	return buf.Bytes()
}

// isPacmanSection reports whether line opens a section, commented out or not.
func isPacmanSection(line string) bool {
	return strings.HasPrefix(line, "[") || strings.HasPrefix(line, "#[")
}

func hasPacmanRepo(conf []byte, name string) bool {
	header := "[" + name + "]"
	scanner := bufio.NewScanner(bytes.NewReader(conf))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == header {
			return true
		}
	}
	return false
}

// removePacmanRepo drops the [name] section up to the next section header.
func removePacmanRepo(conf []byte, name string) ([]byte, bool) {
	header := "[" + name + "]"

	var buf bytes.Buffer
	found, skipping := false, false
	scanner := bufio.NewScanner(bytes.NewReader(conf))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if skipping {
			if !isPacmanSection(trimmed) {
				continue
			}
			skipping = false
		}
		if !found && trimmed == header {
			found, skipping = true, true
			continue
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), found
}
