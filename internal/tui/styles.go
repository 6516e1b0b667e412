// Package tui provides the interactive backend browser.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pwpm/pkg/manager/catalog"
)

// Color palette - matches existing CLI colors
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorText      = lipgloss.Color("#F3F4F6") // Light gray
	ColorBgAlt     = lipgloss.Color("#374151")
)

// BackendColors gives well-known backends their brand color.
var BackendColors = map[string]lipgloss.Color{
	"pacman":     lipgloss.Color("#1793D1"),
	"apt":        lipgloss.Color("#A80030"),
	"dnf":        lipgloss.Color("#294172"),
	"brew":       lipgloss.Color("#FBB040"),
	"brew-cask":  lipgloss.Color("#FBB040"),
	"flatpak":    lipgloss.Color("#4A90D9"),
	"snap":       lipgloss.Color("#E95420"),
	"winget":     lipgloss.Color("#0078D4"),
	"chocolatey": lipgloss.Color("#80B5E3"),
	"nix":        lipgloss.Color("#7EBAE4"),
}

// Styles contains all the lipgloss styles used in the TUI
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Content  lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	InputPrompt lipgloss.Style
	Spinner     lipgloss.Style

	Details lipgloss.Style
	Label   lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() *Styles {
	s := &Styles{}

	s.Header = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBgAlt).
		Padding(0, 1).
		Bold(true)

	s.Footer = lipgloss.NewStyle().
		Background(ColorBgAlt).
		Foreground(ColorMuted).
		Padding(0, 1)

	tab := lipgloss.NewStyle().Padding(0, 2)
	s.TabActive = tab.
		Foreground(ColorPrimary).
		Bold(true).
		Underline(true)
	s.TabInactive = tab.
		Foreground(ColorMuted)

	s.Content = lipgloss.NewStyle().
		Padding(1, 2)

	s.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true).
		MarginBottom(1)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	s.Muted = lipgloss.NewStyle().
		Foreground(ColorMuted)

	s.ListItem = lipgloss.NewStyle().
		PaddingLeft(2)

	s.ListItemSelected = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	s.Success = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)

	s.Warning = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)

	s.Error = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	s.InputPrompt = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	s.Spinner = lipgloss.NewStyle().
		Foreground(ColorPrimary)

	s.Details = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)

	s.Label = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	return s
}

// BackendStyle returns the style for a backend name.
func BackendStyle(name string) lipgloss.Style {
	color, ok := BackendColors[name]
	if !ok {
		color = ColorText
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true)
}

// StatusStyle returns the style for a backend status.
func (s *Styles) StatusStyle(status catalog.Status) lipgloss.Style {
	switch status {
	case catalog.StatusUsable:
		return s.Success
	case catalog.StatusInstallable:
		return s.Warning
	}
	return s.Muted
}
