package detector

import (
	"os/exec"
	"strings"
)

// DarwinInfo contains information about a macOS system.
type DarwinInfo struct {
	ProductName    string // e.g., "macOS"
	ProductVersion string // e.g., "14.0"
}

// DetectDarwin reads the macOS version with sw_vers. Missing values are left empty.
func DetectDarwin() *DarwinInfo {
	info := &DarwinInfo{ProductName: "macOS"}

	if version, err := exec.Command("sw_vers", "-productVersion").Output(); err == nil {
		info.ProductVersion = strings.TrimSpace(string(version))
		info.ProductName = "macOS " + info.ProductVersion
	}

	return info
}
