package manager

import "strings"

// Platform identifies the operating system family a backend runs on.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// ParsePlatform maps a GOOS-style string to a Platform.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(s) {
	case "linux":
		return PlatformLinux
	case "darwin", "macos", "osx":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	}
	return PlatformUnknown
}

// Category groups backends by the kind of software they manage.
type Category string

const (
	// CategoryOS is a distribution or operating system package manager (apt, pacman, winget).
	CategoryOS Category = "os"

	// CategoryGeneral is a general purpose third-party manager (chocolatey, scoop).
	CategoryGeneral Category = "general"

	// CategoryCrossPlatform works across several operating systems or distributions (nix, brew, flatpak, snap).
	CategoryCrossPlatform Category = "cross-platform"
)
