package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

const (
	appName     = "pwpm"
	configFile  = "config.toml"
	historyFile = "history.db"
	lockFile    = "pwpm.lock"
)

// dirs holds the per-user directories pwpm writes to.
type dirs struct {
	config string
	data   string
}

// userDirs resolves the directories for goos. Windows keeps configuration in
// the roaming profile and state in the local one; Linux and the BSDs follow
// the XDG base directory variables.
func userDirs(goos string, getenv func(string) string, home string) dirs {
	switch goos {
	case "darwin":
		d := filepath.Join(home, "Library", "Application Support", appName)
		return dirs{config: d, data: d}
	case "windows":
		return dirs{
			config: filepath.Join(envOr(getenv, "APPDATA", filepath.Join(home, "AppData", "Roaming")), appName),
			data:   filepath.Join(envOr(getenv, "LOCALAPPDATA", filepath.Join(home, "AppData", "Local")), appName),
		}
	}
	return dirs{
		config: filepath.Join(envOr(getenv, "XDG_CONFIG_HOME", filepath.Join(home, ".config")), appName),
		data:   filepath.Join(envOr(getenv, "XDG_DATA_HOME", filepath.Join(home, ".local", "share")), appName),
	}
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func home() string {
	dir, err := homedir.Dir()
	if err != nil {
		return os.TempDir()
	}
	return dir
}

func current() dirs {
	return userDirs(runtime.GOOS, os.Getenv, home())
}

// ConfigDir returns the platform-specific configuration directory for pwpm.
func ConfigDir() string {
	return current().config
}

// DataDir returns the directory holding the history database and lock file.
func DataDir() string {
	return current().data
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFile)
}

// HistoryPath returns the full path to the history database.
func HistoryPath() string {
	return filepath.Join(DataDir(), historyFile)
}

// LockPath returns the path of the lock file held by mutating commands.
func LockPath() string {
	return filepath.Join(DataDir(), lockFile)
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0755)
}
