package executor

import (
	"regexp"
	"runtime"
	"strings"
	"sync"
)

var safeArg = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_~^-]+$`)

var (
	quoteShellOnce sync.Once
	quoteShell     string
)

type pathLookup struct{}

func (pathLookup) Exists(name string) bool { return CommandExists(name) }

// Quote returns arg as a single shell word for the shell command lines run
// in, as picked by DetectShell. Arguments made only of safe characters are
// returned unchanged.
func Quote(arg string) string {
	quoteShellOnce.Do(func() {
		if sh, err := DetectShell(pathLookup{}); err == nil {
			quoteShell = sh.Name()
		}
	})
	return quote(runtime.GOOS, quoteShell, arg)
}

// quote quotes arg for shell, or for the default shell of goos when shell
// is empty.
func quote(goos, shell, arg string) string {
	if shell == "" {
		shell = "sh"
		if goos == "windows" {
			shell = "powershell"
		}
	}

	switch strings.ToLower(shell) {
	case "cmd":
		// cmd escapes a double quote by doubling it. ^ is literal inside quotes.
		if arg != "" && safeArg.MatchString(arg) && !strings.ContainsAny(arg, "%^") {
			return arg
		}
		return `"` + strings.ReplaceAll(arg, `"`, `""`) + `"`
	case "pwsh", "powershell":
		if arg != "" && safeArg.MatchString(arg) {
			return arg
		}
		// PowerShell literal strings escape a quote by doubling it.
		return "'" + strings.ReplaceAll(arg, "'", "''") + "'"
	}

	if arg != "" && safeArg.MatchString(arg) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
