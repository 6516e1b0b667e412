//go:build windows

package executor

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// isRoot reports whether the process token is elevated.
func isRoot() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// elevator returns gsudo or the built-in sudo of Windows 11, if installed.
func elevator() string {
	for _, name := range []string{"gsudo.exe", "sudo.exe"} {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return ""
}
