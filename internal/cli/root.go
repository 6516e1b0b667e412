// Package cli implements the command-line interface for pwpm.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pwpm/internal/config"
	"pwpm/internal/ui"
)

var (
	// Global flags
	cfgFile string
	dryRun  bool
	yes     bool
	verbose bool
	debug   bool
	noColor bool

	// Per-command flags
	packageManager   string
	supportPMInstall bool

	// Global state
	cfg *config.Config
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pwpm",
	Short: "One command line for every package manager on the system",
	Long: `pwpm routes package operations to the package managers that can
run on this machine: native ones like apt, dnf, pacman, brew, winget or
chocolatey, and universal ones like flatpak and snap.

A package may be qualified with a manager id to pin it to one backend,
for example "flatpak:org.gimp.GIMP" or "brew:wget".

Examples:
  pwpm install vim                     # First backend that succeeds
  pwpm install vim -p apt              # Only apt
  pwpm install flatpak:org.gimp.GIMP   # Only backends answering to "flatpak"
  pwpm update-package-db --all         # Refresh every backend
  pwpm install-pm -p brew              # Install Homebrew itself`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "D", false, "print commands instead of running them")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every command before it runs")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "print dispatch decisions")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(isInstalledCmd)
	rootCmd.AddCommand(updateDBCmd)
	rootCmd.AddCommand(addDBCmd)
	rootCmd.AddCommand(removeDBCmd)
	rootCmd.AddCommand(updateAllCmd)
	rootCmd.AddCommand(installPMCmd)
	rootCmd.AddCommand(pacmanKeyCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(tuiCmd)
}

// dispatchFlags registers -p and -S on commands that route through the
// dispatcher.
func dispatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&packageManager, "package-manager", "p", "", "use only this package manager")
	cmd.Flags().BoolVarP(&supportPMInstall, "support-pm-install", "S", false,
		"also use package managers that are missing but can install themselves")
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !reported(err) {
		ui.ErrorMsg("%v", err)
	}
	return err
}

// initializeApp loads configuration and applies the global flags.
func initializeApp() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	applyFlags(cfg)
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode, cfg.Output.Debug)
	return nil
}

// applyFlags overrides configuration values with the flags given on the
// command line.
func applyFlags(c *config.Config) {
	if yes {
		c.General.AutoConfirm = true
	}
	if dryRun {
		c.General.DryRun = true
	}
	if verbose {
		c.Output.Verbose = true
	}
	if debug {
		c.Output.Debug = true
	}
	if noColor {
		c.Output.Color = false
	}
	if supportPMInstall {
		c.General.AllowSelfInstall = true
	}
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print pwpm version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("pwpm version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
