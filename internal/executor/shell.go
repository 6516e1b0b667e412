package executor

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoShell is returned when no supported shell is installed.
var ErrNoShell = errors.New("no supported shell found")

// Shell is the interpreter command lines are passed to.
type Shell struct {
	Path string
	Args []string
}

// Command returns the argv that runs line in the shell.
func (s Shell) Command(line string) []string {
	argv := make([]string, 0, len(s.Args)+2)
	argv = append(argv, s.Path)
	argv = append(argv, s.Args...)
	return append(argv, line)
}

// Name returns the shell's base name without extension.
func (s Shell) Name() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type shellCandidate struct {
	name string
	args []string
}

// Backend command templates use POSIX syntax, so sh-compatible shells come
// first on Unix. Windows prefers PowerShell.
var (
	unixShells = []shellCandidate{
		{"bash", []string{"-c"}},
		{"zsh", []string{"-c"}},
		{"sh", []string{"-c"}},
	}
	windowsShells = []shellCandidate{
		{"pwsh.exe", []string{"-NoProfile", "-NonInteractive", "-Command"}},
		{"powershell.exe", []string{"-NoProfile", "-NonInteractive", "-Command"}},
		{"cmd.exe", []string{"/C"}},
	}
)

type lookup interface {
	Exists(name string) bool
}

// DetectShell returns the first supported shell available through l.
func DetectShell(l lookup) (Shell, error) {
	return detectShell(runtime.GOOS, l)
}

func detectShell(goos string, l lookup) (Shell, error) {
	candidates := unixShells
	if goos == "windows" {
		candidates = windowsShells
	}

	for _, c := range candidates {
		if l.Exists(c.name) {
			return Shell{Path: c.name, Args: c.args}, nil
		}
	}
	return Shell{}, ErrNoShell
}
