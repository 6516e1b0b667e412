package detector

import "pwpm/pkg/manager"

// windowsManagers maps Windows backends to the command that proves they are installed.
var windowsManagers = []struct {
	name    string
	command string
}{
	{"winget", "winget"},
	{"chocolatey", "choco"},
	{"scoop", "scoop"},
}

// GetWindowsManagers returns the installed Windows package managers in preference order.
func GetWindowsManagers(lookup manager.CommandLookup) []string {
	var managers []string
	for _, m := range windowsManagers {
		if lookup.Exists(m.command) {
			managers = append(managers, m.name)
		}
	}
	return managers
}

// GetWindowsManager returns the preferred installed package manager on Windows.
func GetWindowsManager(lookup manager.CommandLookup) string {
	if managers := GetWindowsManagers(lookup); len(managers) > 0 {
		return managers[0]
	}
	return ""
}
