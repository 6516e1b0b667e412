package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pwpm/internal/ui"
	"pwpm/pkg/manager/catalog"
)

var backendsUsable bool

var backendsCmd = &cobra.Command{
	Use:     "backends",
	Aliases: []string{"list-pm"},
	Short:   "List package managers and whether they can run here",
	Long: `List every package manager pwpm knows with its status on this system:

  usable       installed and every requirement is met
  installable  missing, but "pwpm install-pm -p <name>" can install it
  unusable     wrong platform, privileges or missing commands (see reason)

Examples:
  pwpm backends                      # All package managers
  pwpm backends --usable             # Only the ones that can run now`,
	Args: cobra.NoArgs,
	RunE: runBackends,
}

func init() {
	backendsCmd.Flags().BoolVarP(&backendsUsable, "usable", "u", false, "only show usable package managers")
}

func runBackends(cmd *cobra.Command, args []string) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	var reports []catalog.Report
	err = ui.WithSpinner("Checking package managers...", func() error {
		reports = s.reports(backendsUsable)
		return nil
	})
	if err != nil {
		return err
	}

	ui.PrintBackends(os.Stdout, reports)
	if s.disp.Len() > 0 {
		ui.MutedMsg("\nDispatch order: %s", strings.Join(s.disp.Names(), ", "))
	}
	return nil
}

// reports describes every catalogued backend, optionally only usable ones.
func (s *session) reports(usableOnly bool) []catalog.Report {
	reports := catalog.DescribeAll(s.all, s.env)
	if !usableOnly {
		return reports
	}

	usable := reports[:0]
	for _, r := range reports {
		if r.Status == catalog.StatusUsable {
			usable = append(usable, r)
		}
	}
	return usable
}
