package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if len(cfg.General.Backends) != 0 {
		t.Errorf("expected no backend filter by default, got %v", cfg.General.Backends)
	}
	if cfg.General.LockTimeout != DefaultLockTimeout {
		t.Errorf("expected lock timeout %v, got %v", DefaultLockTimeout, cfg.General.LockTimeout)
	}

	if !cfg.Output.Color {
		t.Error("expected Color to be true by default")
	}
	if !cfg.Output.Unicode {
		t.Error("expected Unicode to be true by default")
	}
	if cfg.Output.Verbose || cfg.Output.Debug {
		t.Error("expected Verbose and Debug to be false by default")
	}

	if cfg.General.AutoConfirm {
		t.Error("expected AutoConfirm to be false by default")
	}
	if cfg.General.DryRun {
		t.Error("expected DryRun to be false by default")
	}
	if cfg.General.AllowSelfInstall {
		t.Error("expected AllowSelfInstall to be false by default")
	}

	opts := cfg.CatalogOptions()
	if !opts.UseNala {
		t.Error("expected nala to be preferred by default")
	}
	if !opts.ChocolateyEnhancedExitCodes {
		t.Error("expected chocolatey enhanced exit codes by default")
	}
	if opts.SnapAllowClassic {
		t.Error("expected classic snaps to be off by default")
	}
}

func TestResolveAlias(t *testing.T) {
	cfg := &Config{
		Aliases: map[string]string{
			"vim":    "neovim",
			"code":   "visual-studio-code",
			"apt:fd": "apt:fd-find",
		},
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"vim", "neovim"},
		{"code", "visual-studio-code"},
		{"git", "git"},
		{"brew:vim", "brew:neovim"},
		{"apt:fd", "apt:fd-find"},
		{"apt:git", "apt:git"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := cfg.ResolveAlias(tt.input)
			if result != tt.expected {
				t.Errorf("ResolveAlias(%s) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestResolveAliases(t *testing.T) {
	cfg := &Config{
		Aliases: map[string]string{
			"vim": "neovim",
		},
	}

	input := []string{"vim", "git", "curl"}
	expected := []string{"neovim", "git", "curl"}

	result := cfg.ResolveAliases(input)

	if len(result) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(result))
	}

	for i, r := range result {
		if r != expected[i] {
			t.Errorf("result[%d] = %s, want %s", i, r, expected[i])
		}
	}
}

func TestBuildOpts(t *testing.T) {
	cfg := Default()
	cfg.General.Backends = []string{"apt", "flatpak"}
	cfg.General.Priority = []string{"flatpak"}
	cfg.General.AllowSelfInstall = true

	opts := cfg.BuildOpts()
	if len(opts.Filter) != 2 || opts.Filter[0] != "apt" {
		t.Errorf("unexpected filter %v", opts.Filter)
	}
	if len(opts.Priority) != 1 || opts.Priority[0] != "flatpak" {
		t.Errorf("unexpected priority %v", opts.Priority)
	}
	if !opts.AllowSelfInstall {
		t.Error("expected AllowSelfInstall to carry over")
	}
}

func TestShouldUseColor(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{Color: true},
	}

	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	if !cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return true")
	}

	os.Setenv("NO_COLOR", "1")
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when NO_COLOR is set")
	}
	os.Unsetenv("NO_COLOR")

	cfg.Output.Color = false
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when Color is false")
	}
}

func TestLoadSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Aliases["test"] = "test-package"
	cfg.General.Priority = []string{"brew", "apt"}
	cfg.Managers.Snap.AllowClassic = true

	err := cfg.SaveTo(configPath)
	if err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if loaded.ResolveAlias("test") != "test-package" {
		t.Error("loaded config doesn't have expected alias")
	}
	if len(loaded.General.Priority) != 2 || loaded.General.Priority[0] != "brew" {
		t.Errorf("loaded priority = %v", loaded.General.Priority)
	}
	if !loaded.Managers.Snap.AllowClassic {
		t.Error("loaded config lost snap.allow_classic")
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[general]
backends = ["apt", "snap"]
lock_timeout = "5s"

[managers.apt]
use_nala = false

[aliases]
vim = "neovim"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if len(cfg.General.Backends) != 2 {
		t.Errorf("backends = %v", cfg.General.Backends)
	}
	if cfg.General.LockTimeout != 5*time.Second {
		t.Errorf("lock timeout = %v, want 5s", cfg.General.LockTimeout)
	}
	if cfg.Managers.APT.UseNala {
		t.Error("expected use_nala to be overridden")
	}
	// Sections absent from the file keep their defaults.
	if !cfg.Managers.Chocolatey.EnhancedExitCodes {
		t.Error("expected chocolatey default to survive")
	}
	if !cfg.Output.Color {
		t.Error("expected output defaults to survive")
	}
	if cfg.ResolveAlias("vim") != "neovim" {
		t.Error("alias not loaded")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\nbackends = "), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadFrom("/non/existent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadFrom() should not error for non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadFrom() should return default config for non-existent file")
	}

	if !cfg.Output.Color {
		t.Error("expected default Color to be true")
	}
}
