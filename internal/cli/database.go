package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"pwpm/internal/history"
	"pwpm/internal/ui"
	"pwpm/pkg/manager"
)

var updateDBAll bool

var updateDBCmd = &cobra.Command{
	Use:   "update-package-db",
	Short: "Refresh package indexes",
	Long: `Refresh the package database/repository cache.

This downloads the latest package information but does not install or
upgrade any packages. Without --all the first package manager that
succeeds is enough.

Examples:
  pwpm update-package-db             # First manager that succeeds
  pwpm update-package-db --all       # Every usable manager
  pwpm update-package-db -p flatpak  # Only flatpak`,
	Args: cobra.NoArgs,
	RunE: runUpdateDB,
}

var addDBCmd = &cobra.Command{
	Use:   "add-package-db [repository]",
	Short: "Add a package repository",
	Long: `Add a repository to the first package manager that accepts it.

Repository syntax is the package manager's own: a PPA for apt, a .repo
URL for dnf, "<name> <url>" for flatpak, pacman and zypper, a tap for brew,
a bucket for scoop.

Examples:
  pwpm add-package-db ppa:neovim-ppa/stable -p apt
  pwpm add-package-db flathub https://flathub.org/repo/flathub.flatpakrepo -p flatpak
  pwpm add-package-db homebrew/cask-fonts -p brew`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepoOp(commandContext(cmd), history.OpAddRepo, args)
	},
}

var removeDBCmd = &cobra.Command{
	Use:   "remove-package-db [repository]",
	Short: "Remove a package repository",
	Long: `Remove a repository from the first package manager that succeeds.

Examples:
  pwpm remove-package-db ppa:neovim-ppa/stable -p apt
  pwpm remove-package-db flathub -p flatpak`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepoOp(commandContext(cmd), history.OpRemoveRepo, args)
	},
}

var updateAllCmd = &cobra.Command{
	Use:   "update-all",
	Short: "Upgrade every installed package",
	Long: `Upgrade all packages of every usable package manager, or of the one
named with -p. Every package manager involved must succeed.

Examples:
  pwpm update-all                    # Every usable manager
  pwpm update-all -p brew            # Homebrew only`,
	Args: cobra.NoArgs,
	RunE: runUpdateAll,
}

func init() {
	updateDBCmd.Flags().BoolVarP(&updateDBAll, "all", "a", false, "refresh every usable package manager")
	dispatchFlags(updateDBCmd)
	dispatchFlags(addDBCmd)
	dispatchFlags(removeDBCmd)
	dispatchFlags(updateAllCmd)
}

func runUpdateDB(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	return s.mutate(ctx, "Package database update", func() (manager.Outcome, []*history.Entry) {
		return s.updateDatabase(ctx, packageManager, updateDBAll)
	})
}

// updateDatabase refreshes indexes. The entry names the backend only when a
// single one did the work.
func (s *session) updateDatabase(ctx context.Context, name string, all bool) (manager.Outcome, []*history.Entry) {
	var out manager.Outcome
	if name != "" {
		out = s.disp.UpdateDatabaseWith(ctx, name)
	} else {
		out = s.disp.UpdateDatabase(ctx, all)
	}

	if out.OK {
		ui.SuccessMsg("Package database updated (%s)", strings.Join(out.Invoked(), ", "))
	}
	return out, []*history.Entry{s.entry(history.OpUpdateDatabase, backendOf(out, name), nil, out)}
}

func runRepoOp(ctx context.Context, op history.Operation, args []string) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	repo := strings.Join(args, " ")
	what := "Adding repository " + repo
	if op == history.OpRemoveRepo {
		what = "Removing repository " + repo
	}

	return s.mutate(ctx, what, func() (manager.Outcome, []*history.Entry) {
		return s.repository(ctx, op, packageManager, repo)
	})
}

// repository adds or removes repo with the first backend that succeeds.
func (s *session) repository(ctx context.Context, op history.Operation, name, repo string) (manager.Outcome, []*history.Entry) {
	var out manager.Outcome
	switch {
	case op == history.OpAddRepo && name != "":
		out = s.disp.AddRepositoryWith(ctx, name, repo)
	case op == history.OpAddRepo:
		out = s.disp.AddRepository(ctx, repo)
	case name != "":
		out = s.disp.RemoveRepositoryWith(ctx, name, repo)
	default:
		out = s.disp.RemoveRepository(ctx, repo)
	}

	if out.OK {
		if op == history.OpAddRepo {
			ui.SuccessMsg("Added %s to %s", repo, out.Backend)
		} else {
			ui.SuccessMsg("Removed %s from %s", repo, out.Backend)
		}
	}
	entry := s.entry(op, backendOf(out, name), []string{repo}, out)
	if m, ok := s.disp.Get(entry.Backend); ok {
		entry.SetUndo(repositoryUndo(m, op, repo))
	}
	return out, []*history.Entry{entry}
}

// repositoryUndo returns what the reverse of op needs, or nil when the
// backend can't undo it.
func repositoryUndo(m manager.Manager, op history.Operation, repo string) []string {
	undo := manager.UndoRemoveRepository
	if op == history.OpAddRepo {
		undo = manager.UndoAddRepository
	}
	if key, ok := undo(m, repo); ok {
		return []string{key}
	}
	return nil
}

func runUpdateAll(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	if s.disp.Len() == 0 {
		return ErrNoManager
	}

	return s.mutate(ctx, "Upgrade", func() (manager.Outcome, []*history.Entry) {
		return s.updateAll(ctx, packageManager)
	})
}

func (s *session) updateAll(ctx context.Context, name string) (manager.Outcome, []*history.Entry) {
	var out manager.Outcome
	if name != "" {
		out = s.disp.UpdateAllWith(ctx, name)
	} else {
		out = s.disp.UpdateAll(ctx)
	}

	if out.OK {
		ui.SuccessMsg("Upgraded all packages (%s)", strings.Join(out.Invoked(), ", "))
	}
	return out, []*history.Entry{s.entry(history.OpUpdateAll, strings.ToLower(name), nil, out)}
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
