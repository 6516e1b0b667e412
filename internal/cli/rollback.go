package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pwpm/internal/history"
	"pwpm/internal/ui"
	"pwpm/pkg/manager"
)

var (
	rollbackID   uint64
	rollbackPick bool
)

var rollbackCmd = &cobra.Command{
	Use:     "rollback",
	Aliases: []string{"undo"},
	Short:   "Undo the last reversible operation",
	Long: `Undo the last reversible operation with the package manager that
performed it.

Installs, uninstalls and repository additions or removals can be rolled
back. Updates, upgrades and index refreshes cannot be undone.

Examples:
  pwpm rollback             # Undo last reversible operation
  pwpm rollback --id 42     # Undo a specific operation
  pwpm rollback --pick      # Choose from recent reversible operations`,
	Args: cobra.NoArgs,
	RunE: runRollback,
}

func init() {
	rollbackCmd.Flags().Uint64Var(&rollbackID, "id", 0, "history ID of the operation to undo")
	rollbackCmd.Flags().BoolVar(&rollbackPick, "pick", false, "choose the operation interactively")
}

func runRollback(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	entry, err := s.rollbackTarget(rollbackID, rollbackPick)
	if err != nil {
		return err
	}
	if !entry.CanRollback() {
		return fmt.Errorf("operation cannot be rolled back: %s", entry.Summary())
	}

	ui.HeaderMsg("Rolling back: %s", entry.Summary())
	ui.InfoMsg("Reverse operation: %s with %s", entry.ReverseOp, entry.Backend)
	for _, target := range entry.Targets {
		ui.MutedMsg("  - %s", target)
	}

	if err := s.confirm("Proceed with rollback?", false); err != nil {
		return err
	}

	err = s.mutate(ctx, "Rollback", func() (manager.Outcome, []*history.Entry) {
		return s.rollback(ctx, entry)
	})
	if err != nil {
		return err
	}

	if !s.cfg.General.DryRun {
		if err := s.markRolledBack(entry.ID); err != nil {
			ui.WarningMsg("Rolled back, but history could not be updated: %v", err)
		}
	}
	ui.SuccessMsg("Rollback completed successfully")
	return nil
}

// rollbackTarget finds the entry to undo: the one with id, one picked from
// the recent reversible entries, or the last reversible one.
func (s *session) rollbackTarget(id uint64, pick bool) (*history.Entry, error) {
	store, err := s.openHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	switch {
	case id != 0:
		entry, err := store.Get(id)
		if errors.Is(err, history.ErrNotFound) {
			return nil, fmt.Errorf("operation #%d not found", id)
		}
		return entry, err

	case pick:
		recent, err := store.List(50)
		if err != nil {
			return nil, err
		}
		var candidates []history.Entry
		var labels []string
		for _, e := range recent {
			if e.CanRollback() {
				candidates = append(candidates, e)
				labels = append(labels, e.Summary())
			}
		}
		if len(candidates) == 0 {
			return nil, history.ErrNothingToRollback
		}
		i, err := ui.Select("Operation to undo", labels)
		if err != nil {
			return nil, err
		}
		return &candidates[i], nil
	}

	return store.LastReversible()
}

// rollback performs entry's reverse operation on every target with the
// backend that handled it.
func (s *session) rollback(ctx context.Context, entry *history.Entry) (manager.Outcome, []*history.Entry) {
	switch entry.ReverseOp {
	case history.OpInstall:
		return s.apply(ctx, installOp, entry.Backend, manager.ParseReferences(entry.UndoTargets()))
	case history.OpUninstall:
		return s.apply(ctx, uninstallOp, entry.Backend, manager.ParseReferences(entry.UndoTargets()))
	case history.OpAddRepo, history.OpRemoveRepo:
		var (
			entries []*history.Entry
			errs    []error
		)
		for _, repo := range entry.UndoTargets() {
			o, e := s.repository(ctx, entry.ReverseOp, entry.Backend, repo)
			entries = append(entries, e...)
			if !o.OK {
				errs = append(errs, fmt.Errorf("%s: %w", repo, outcomeErr(o)))
			}
		}
		if len(errs) > 0 {
			return manager.Outcome{Err: errors.Join(errs...)}, entries
		}
		return manager.Outcome{OK: true, Backend: entry.Backend}, entries
	}

	err := fmt.Errorf("unsupported reverse operation: %s", entry.ReverseOp)
	return manager.Outcome{Err: err}, nil
}

func (s *session) markRolledBack(id uint64) error {
	store, err := s.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()
	return store.MarkRolledBack(id)
}
