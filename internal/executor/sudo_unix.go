//go:build !windows

package executor

import (
	"os"
	"os/exec"
)

func isRoot() bool {
	return os.Geteuid() == 0
}

// elevator returns the first installed of sudo and doas.
func elevator() string {
	for _, name := range []string{"sudo", "doas"} {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return ""
}
