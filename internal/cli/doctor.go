package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pwpm/internal/config"
	"pwpm/internal/executor"
	"pwpm/internal/ui"
	"pwpm/pkg/manager/catalog"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose system issues",
	Long: `Show what pwpm detected about this system and check for common
problems: no usable package manager, no way to elevate, a configured
backend filter that matches nothing.

Examples:
  pwpm doctor               # Run diagnostics`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

// severity of a doctor finding.
type severity int

const (
	sevOK severity = iota
	sevWarn
	sevIssue
)

type finding struct {
	sev     severity
	message string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	ui.HeaderMsg("System")
	ui.PrintField("Platform", string(s.env.Host.Platform))
	if s.info.PrettyName != "" {
		ui.PrintField("System", s.info.PrettyName)
	}
	ui.PrintField("Architecture", s.info.Arch)
	ui.PrintField("WSL", fmt.Sprint(s.env.Host.WSL))
	ui.PrintField("Administrator", fmt.Sprint(s.env.Host.Admin))

	ui.HeaderMsg("Files")
	ui.PrintField("Config", config.ConfigPath())
	ui.PrintField("History", config.HistoryPath())
	ui.PrintField("Lock", config.LockPath())

	var findings []finding
	err = ui.WithSpinner("Running diagnostics...", func() error {
		findings = s.diagnose(executor.CanElevate())
		return nil
	})
	if err != nil {
		return err
	}

	ui.HeaderMsg("Diagnostics")
	issues := 0
	for _, f := range findings {
		switch f.sev {
		case sevOK:
			ui.SuccessMsg("%s", f.message)
		case sevWarn:
			ui.WarningMsg("%s", f.message)
		default:
			ui.ErrorMsg("%s", f.message)
			issues++
		}
	}

	ui.HeaderMsg("Summary")
	if issues == 0 {
		ui.SuccessMsg("No issues found! pwpm is ready to use.")
	} else {
		ui.WarningMsg("Found %d issue(s). Some features may not work correctly.", issues)
	}
	return nil
}

// diagnose checks the session for problems. canElevate reports whether an
// elevation helper is available to a non-admin process.
func (s *session) diagnose(canElevate bool) []finding {
	var findings []finding
	add := func(sev severity, format string, args ...interface{}) {
		findings = append(findings, finding{sev: sev, message: fmt.Sprintf(format, args...)})
	}

	if native := s.info.NativeManager(s.env.Runner); native != "" {
		if m, ok := s.disp.Get(native); ok {
			add(sevOK, "Native package manager: %s", m.Capability().DisplayName)
		} else {
			add(sevWarn, "Native package manager %s is not usable", native)
		}
	} else {
		add(sevWarn, "No native package manager known for this system")
	}

	if s.disp.Len() == 0 {
		add(sevIssue, "No usable package manager found")
	} else {
		add(sevOK, "Usable package managers: %s", strings.Join(s.disp.Names(), ", "))
	}

	var installable []string
	for _, r := range catalog.DescribeAll(s.all, s.env) {
		if r.Status == catalog.StatusInstallable {
			installable = append(installable, r.Name)
		}
	}
	if len(installable) > 0 {
		add(sevOK, "Installable with install-pm: %s", strings.Join(installable, ", "))
	}

	for _, name := range s.disp.Dropped() {
		add(sevWarn, "Configured backend %q is not usable here", name)
	}

	if !s.env.Host.Admin && !canElevate {
		needAdmin := false
		for _, m := range s.disp.Managers() {
			if m.Capability().RequiresAdmin {
				needAdmin = true
				break
			}
		}
		if needAdmin {
			add(sevIssue, "Some package managers need administrator rights but no sudo/doas/gsudo was found")
		}
	}

	return findings
}
