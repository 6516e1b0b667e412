package cli

import (
	"context"

	"github.com/spf13/cobra"

	"pwpm/internal/history"
	"pwpm/internal/ui"
	"pwpm/pkg/manager"
)

var installCmd = &cobra.Command{
	Use:   "install [packages...]",
	Short: "Install one or more packages",
	Long: `Install packages with the first usable package manager that succeeds.

Package managers are tried in dispatch order (see "pwpm backends").
A package qualified with a manager id, like "snap:code", is only offered
to the package managers answering to that id.

Examples:
  pwpm install vim git curl          # Install using the first manager that works
  pwpm install code -p snap          # Install with snap only
  pwpm install flatpak:org.gimp.GIMP # Qualified reference
  pwpm install -S wget               # Also consider managers that can install themselves`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPackageOp(commandContext(cmd), installOp, "Install", args)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [packages...]",
	Short: "Update one or more installed packages",
	Long: `Update packages with the first usable package manager that succeeds.

To refresh package indexes use "pwpm update-package-db"; to upgrade
everything use "pwpm update-all".

Examples:
  pwpm update vim                    # Update vim
  pwpm update firefox -p flatpak     # Update with flatpak only`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPackageOp(commandContext(cmd), updateOp, "Update", args)
	},
}

var uninstallCmd = &cobra.Command{
	Use:     "uninstall [packages...]",
	Aliases: []string{"remove"},
	Short:   "Remove one or more packages",
	Long: `Remove packages with the first usable package manager that succeeds.

Examples:
  pwpm uninstall vim                 # Remove vim
  pwpm remove code -p snap           # Remove the snap only`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPackageOp(commandContext(cmd), uninstallOp, "Uninstall", args)
	},
}

func init() {
	dispatchFlags(installCmd)
	dispatchFlags(updateCmd)
	dispatchFlags(uninstallCmd)
}

func runPackageOp(ctx context.Context, op refOp, what string, args []string) error {
	if len(args) == 0 {
		return ErrNoPackages
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	if s.disp.Len() == 0 {
		return ErrNoManager
	}

	refs := s.references(args)
	return s.mutate(ctx, what, func() (manager.Outcome, []*history.Entry) {
		return s.apply(ctx, op, packageManager, refs)
	})
}

var isInstalledCmd = &cobra.Command{
	Use:   "is-installed [package]",
	Short: "Check whether a package is installed",
	Long: `Ask every usable package manager whether the package is installed.
Exits with status 1 when none of them has it.

Examples:
  pwpm is-installed vim              # Any package manager
  pwpm is-installed vim -p apt       # Only apt`,
	Args: cobra.ExactArgs(1),
	RunE: runIsInstalled,
}

func init() {
	dispatchFlags(isInstalledCmd)
}

func runIsInstalled(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	ref := s.references(args)[0]
	var out manager.Outcome
	if packageManager != "" {
		out = s.disp.IsInstalledWith(ctx, packageManager, ref)
	} else {
		out = s.disp.IsInstalled(ctx, ref)
	}

	if out.OK {
		ui.SuccessMsg("%s is installed (%s)", ref, out.Backend)
		return nil
	}
	if out.Err == nil {
		ui.InfoMsg("%s is not installed", ref)
		return &reportedError{err: ErrNotInstalled}
	}
	return outcomeError("is-installed "+ref.String(), out)
}
