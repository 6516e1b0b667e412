package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"pwpm/pkg/manager"
	"pwpm/pkg/manager/catalog"
	"pwpm/pkg/manager/universal"
)

// DefaultLockTimeout is how long a mutating command waits for another
// pwpm process to finish.
const DefaultLockTimeout = 30 * time.Second

// Config represents the complete pwpm configuration.
type Config struct {
	General  GeneralConfig     `toml:"general"`
	Output   OutputConfig      `toml:"output"`
	Managers ManagersConfig    `toml:"managers"`
	Aliases  map[string]string `toml:"aliases"`
}

// GeneralConfig contains dispatch settings.
type GeneralConfig struct {
	// Backends restricts dispatch to the named backends. Empty means all.
	Backends []string `toml:"backends"`

	// Priority moves the named backends to the front of the dispatch order.
	Priority []string `toml:"priority"`

	// AllowSelfInstall keeps backends that are missing but could install
	// themselves (like -S).
	AllowSelfInstall bool `toml:"allow_self_install"`

	// AutoConfirm skips confirmation prompts when true (like -y).
	AutoConfirm bool `toml:"auto_confirm"`

	// DryRun prints commands instead of running them (like -D).
	DryRun bool `toml:"dry_run"`

	LockTimeout time.Duration `toml:"lock_timeout"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose echoes every command before it runs.
	Verbose bool `toml:"verbose"`

	// Debug prints dispatch decisions.
	Debug bool `toml:"debug"`
}

// ManagersConfig holds the per-backend settings.
type ManagersConfig struct {
	APT        APTConfig        `toml:"apt"`
	Flatpak    FlatpakConfig    `toml:"flatpak"`
	Snap       SnapConfig       `toml:"snap"`
	Chocolatey ChocolateyConfig `toml:"chocolatey"`
}

type APTConfig struct {
	// UseNala prefers nala over apt when it is installed.
	UseNala bool `toml:"use_nala"`
}

type FlatpakConfig struct {
	// DefaultRemote is added after flatpak installs itself, as
	// "<name> <url>".
	DefaultRemote string `toml:"default_remote"`
}

type SnapConfig struct {
	// AllowClassic installs snaps with classic confinement.
	AllowClassic bool `toml:"allow_classic"`
}

type ChocolateyConfig struct {
	EnhancedExitCodes bool `toml:"enhanced_exit_codes"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			LockTimeout: DefaultLockTimeout,
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
		},
		Managers: ManagersConfig{
			APT:        APTConfig{UseNala: true},
			Flatpak:    FlatpakConfig{DefaultRemote: universal.DefaultFlatpakRemote},
			Chocolatey: ChocolateyConfig{EnhancedExitCodes: true},
		},
		Aliases: map[string]string{},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	if cfg.General.LockTimeout <= 0 {
		cfg.General.LockTimeout = DefaultLockTimeout
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// ResolveAlias rewrites a raw reference through [aliases]. Qualified
// references ("apt:vim") are looked up whole, then by their package part
// with the backend prefix kept.
func (c *Config) ResolveAlias(raw string) string {
	if alias, ok := c.Aliases[raw]; ok {
		return alias
	}
	ref := manager.ParseReference(raw)
	if id, qualified := ref.ManagerID(); qualified {
		if alias, ok := c.Aliases[ref.PackageName()]; ok {
			return id + ":" + alias
		}
	}
	return raw
}

// ResolveAliases resolves all aliases in a list of raw references.
func (c *Config) ResolveAliases(raws []string) []string {
	resolved := make([]string, len(raws))
	for i, raw := range raws {
		resolved[i] = c.ResolveAlias(raw)
	}
	return resolved
}

// CatalogOptions returns the backend settings for catalog.All.
func (c *Config) CatalogOptions() catalog.Options {
	return catalog.Options{
		UseNala:                     c.Managers.APT.UseNala,
		FlatpakRemote:               c.Managers.Flatpak.DefaultRemote,
		SnapAllowClassic:            c.Managers.Snap.AllowClassic,
		ChocolateyEnhancedExitCodes: c.Managers.Chocolatey.EnhancedExitCodes,
	}
}

// BuildOpts returns the dispatcher settings from [general].
func (c *Config) BuildOpts() manager.BuildOpts {
	return manager.BuildOpts{
		Filter:           c.General.Backends,
		AllowSelfInstall: c.General.AllowSelfInstall,
		Priority:         c.General.Priority,
	}
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
