// Package detector inspects the host: operating system, Linux distribution,
// WSL and the platform's preferred package manager.
package detector

import (
	"runtime"

	"pwpm/pkg/manager"
)

// SystemInfo contains information about the detected system.
type SystemInfo struct {
	Platform     manager.Platform
	Arch         string
	Distribution string   // Linux distribution ID (e.g., "ubuntu", "arch")
	DistroFamily []string // Related distributions (from ID_LIKE)
	PrettyName   string
	VersionID    string
	WSL          bool
}

// Detect detects the current system's platform and distribution.
func Detect() (*SystemInfo, error) {
	info := &SystemInfo{
		Platform: manager.ParsePlatform(runtime.GOOS),
		Arch:     runtime.GOARCH,
	}

	switch info.Platform {
	case manager.PlatformLinux:
		info.WSL = IsWSL()
		linuxInfo, err := DetectLinux()
		if err != nil {
			return info, err
		}
		info.Distribution = linuxInfo.ID
		info.DistroFamily = linuxInfo.IDLike
		info.PrettyName = linuxInfo.PrettyName
		info.VersionID = linuxInfo.VersionID
	case manager.PlatformDarwin:
		darwin := DetectDarwin()
		info.Distribution = "macos"
		info.PrettyName = darwin.ProductName
		info.VersionID = darwin.ProductVersion
	case manager.PlatformWindows:
		info.Distribution = "windows"
		info.PrettyName = "Windows"
	}

	return info, nil
}

// Host returns the capability-check view of the system.
func (s *SystemInfo) Host(admin bool) manager.Host {
	return manager.Host{
		Platform: s.Platform,
		Admin:    admin,
		WSL:      s.WSL,
	}
}

// MatchesDistro checks if the system matches any of the given distribution identifiers.
// It checks both the direct distribution ID and the ID_LIKE family.
func (s *SystemInfo) MatchesDistro(distros ...string) bool {
	for _, d := range distros {
		if s.Distribution == d {
			return true
		}
		for _, family := range s.DistroFamily {
			if family == d {
				return true
			}
		}
	}
	return false
}

// NativeManager returns the name of the backend the platform ships with,
// or "" when unknown. On Windows the first installed of winget, chocolatey
// and scoop is preferred.
func (s *SystemInfo) NativeManager(lookup manager.CommandLookup) string {
	switch s.Platform {
	case manager.PlatformLinux:
		return GetNativeManagerForFamily(s.Distribution, s.DistroFamily)
	case manager.PlatformDarwin:
		return "brew"
	case manager.PlatformWindows:
		return GetWindowsManager(lookup)
	}
	return ""
}

// IsLinux returns true if the system is running Linux.
func (s *SystemInfo) IsLinux() bool {
	return s.Platform == manager.PlatformLinux
}

// IsDarwin returns true if the system is running macOS.
func (s *SystemInfo) IsDarwin() bool {
	return s.Platform == manager.PlatformDarwin
}

// IsWindows returns true if the system is running Windows.
func (s *SystemInfo) IsWindows() bool {
	return s.Platform == manager.PlatformWindows
}
