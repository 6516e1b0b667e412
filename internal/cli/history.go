package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pwpm/internal/history"
	"pwpm/internal/ui"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show operation history",
	Long: `Display the history of package operations performed by pwpm.

Examples:
  pwpm history              # Show recent history
  pwpm history -l 20        # Show last 20 operations
  pwpm history --clear      # Forget all operations`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history entries")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if historyClear {
		if !cfg.General.AutoConfirm {
			ok, err := ui.Confirm("Delete all history entries?", false)
			if err != nil {
				return err
			}
			if !ok {
				return ErrAborted
			}
		}
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		ui.SuccessMsg("History cleared")
		return nil
	}

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Operation History")

	for i := range entries {
		entry := &entries[i]
		fmt.Println(formatEntry(entry))
		if entry.Error != "" {
			ui.MutedMsg("      Error: %s", entry.Error)
		}
	}

	total, _ := store.Count()
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)

	return nil
}

// formatEntry renders one history line.
func formatEntry(entry *history.Entry) string {
	var status string
	switch {
	case entry.RolledBack:
		status = ui.Yellow("rolled back")
	case entry.DryRun:
		status = ui.Cyan("dry-run")
	case entry.Success:
		status = ui.Green("success")
	default:
		status = ui.Red("failed")
	}

	line := fmt.Sprintf("%4d. %s %s", entry.ID, ui.Muted.Sprint(entry.FormatTime()), ui.Bold(string(entry.Operation)))
	if targets := formatTargets(entry.Targets); targets != "" {
		line += " " + targets
	}
	if entry.Backend != "" {
		line += " [" + ui.Cyan(entry.Backend) + "]"
	}
	line += " (" + status + ")"

	if entry.CanRollback() {
		line += " " + ui.Cyan("[reversible]")
	}
	return line
}

// formatTargets formats a list of packages or repositories for display.
func formatTargets(targets []string) string {
	switch {
	case len(targets) == 0:
		return ""
	case len(targets) == 1:
		return targets[0]
	case len(targets) <= 3:
		return strings.Join(targets, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", targets[0], len(targets)-1)
}
