package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pwpm/internal/history"
	"pwpm/internal/ui"
	"pwpm/pkg/manager"
	"pwpm/pkg/manager/native"
)

var installPMCmd = &cobra.Command{
	Use:   "install-pm",
	Short: "Install a package manager",
	Long: `Install the package manager named with -p on this system, using
whatever the system already has (its installer script, or another package
manager).

Examples:
  pwpm install-pm -p brew            # Install Homebrew
  pwpm install-pm -p flatpak -y      # Install flatpak and add the default remote`,
	Args: cobra.NoArgs,
	RunE: runInstallPM,
}

func init() {
	installPMCmd.Flags().StringVarP(&packageManager, "package-manager", "p", "", "package manager to install")
}

func runInstallPM(cmd *cobra.Command, args []string) error {
	if packageManager == "" {
		return ErrManagerRequired
	}
	ctx := commandContext(cmd)

	// The target is usually not usable yet
	cfg.General.AllowSelfInstall = true
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	m, err := s.installable(packageManager)
	if err != nil {
		return err
	}
	if m == nil {
		ui.InfoMsg("%s is already installed", packageManager)
		return nil
	}

	display := m.Capability().DisplayName
	if err := s.confirm(fmt.Sprintf("Install %s?", display), true); err != nil {
		return err
	}

	return s.mutate(ctx, "Installing "+display, func() (manager.Outcome, []*history.Entry) {
		out := s.disp.InstallManager(ctx, m.Name())
		if out.OK {
			ui.SuccessMsg("%s installed", display)
		}
		return out, []*history.Entry{s.entry(history.OpInstallManager, m.Name(), []string{m.Name()}, out)}
	})
}

// installable returns the backend named name if it can install itself. It
// returns nil without error when the backend is already usable.
func (s *session) installable(name string) (manager.Manager, error) {
	m, ok := s.disp.Get(name)
	if !ok {
		if known := s.lookup(name); known != nil {
			return nil, fmt.Errorf("%s: %w", known.Name(), ErrNotInstallable)
		}
		return nil, fmt.Errorf("%q: %w", name, manager.ErrUnknownBackend)
	}
	if m.IsSupported() {
		return nil, nil
	}
	if !m.IsInstallSupported() {
		return nil, fmt.Errorf("%s: %w", m.Name(), ErrNotInstallable)
	}
	return m, nil
}

// lookup finds a backend in the full catalogue, usable or not.
func (s *session) lookup(name string) manager.Manager {
	for _, m := range s.all {
		if strings.EqualFold(m.Name(), name) {
			return m
		}
		for _, alias := range m.Aliases() {
			if strings.EqualFold(alias, name) {
				return m
			}
		}
	}
	return nil
}

var pacmanKeyCmd = &cobra.Command{
	Use:   "pacman-key [key-id]",
	Short: "Import and locally sign a pacman signing key",
	Long: `Receive a signing key from the keyserver, print its fingerprint and
sign it locally so packages from a third-party pacman repository verify.

Examples:
  pwpm pacman-key 3056513887B78AEB`,
	Args: cobra.ExactArgs(1),
	RunE: runPacmanKey,
}

func runPacmanKey(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	m, ok := s.disp.Get("pacman")
	if !ok {
		return fmt.Errorf("pacman is not usable on this system")
	}
	pacman, ok := m.(*native.Pacman)
	if !ok {
		return fmt.Errorf("pacman: unexpected backend %T", m)
	}

	return s.mutate(ctx, "Trusting key "+args[0], func() (manager.Outcome, []*history.Entry) {
		if err := pacman.TrustKey(ctx, args[0]); err != nil {
			return manager.Outcome{Err: err}, nil
		}
		ui.SuccessMsg("Key %s trusted", args[0])
		return manager.Outcome{OK: true, Backend: pacman.Name()}, nil
	})
}
