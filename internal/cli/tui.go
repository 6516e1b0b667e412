package cli

import (
	"github.com/spf13/cobra"

	"pwpm/internal/history"
	"pwpm/internal/tui"
	"pwpm/pkg/manager/catalog"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse package managers and history interactively",
	Long: `Launch the interactive terminal user interface for pwpm.

The TUI lists every package manager pwpm knows with its status on this
system, and the operation history.

Navigation:
  - Use arrow keys or j/k to navigate
  - Press tab or 1-2 to switch tabs
  - Press / to filter, enter for details
  - Press r to refresh
  - Press ? for help
  - Press q to quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	load := func() ([]catalog.Report, error) {
		return s.reports(false), nil
	}
	loadHistory := func() ([]history.Entry, error) {
		store, err := s.openHistory()
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.List(100)
	}

	return tui.Run(load, loadHistory)
}
