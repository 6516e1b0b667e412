package detector

import (
	"os"
	"strings"
)

// wslProbeFiles are read in order; the kernel string names Microsoft under WSL.
var wslProbeFiles = []string{
	"/proc/version",
	"/proc/sys/kernel/osrelease",
}

// IsWSL reports whether the process runs under the Windows Subsystem for Linux.
func IsWSL() bool {
	return isWSL(wslProbeFiles)
}

func isWSL(paths []string) bool {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if isWSLKernel(string(data)) {
			return true
		}
	}
	return false
}

func isWSLKernel(release string) bool {
	return strings.Contains(strings.ToLower(release), "microsoft")
}
