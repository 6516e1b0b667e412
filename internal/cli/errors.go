package cli

import (
	"errors"
	"fmt"

	"pwpm/internal/ui"
	"pwpm/pkg/manager"
)

var (
	// ErrNoManager is returned when no package manager is usable on this host.
	ErrNoManager = errors.New("no usable package manager found")

	// ErrNoPackages is returned when no packages are specified.
	ErrNoPackages = errors.New("no packages specified")

	// ErrManagerRequired is returned by commands that need -p.
	ErrManagerRequired = errors.New("a package manager must be named with --package-manager")

	// ErrNotInstallable is returned when a package manager cannot install itself here.
	ErrNotInstallable = errors.New("package manager cannot be installed on this system")

	// ErrNotInstalled is returned by is-installed when no package manager has the package.
	ErrNotInstalled = errors.New("package is not installed")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")
)

// reportedError marks an error that has already been shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// outcomeError prints a failed outcome and returns it as an error.
func outcomeError(what string, out manager.Outcome) error {
	err := outcomeErr(out)

	switch out.Kind() {
	case manager.KindUnsupported:
		ui.ErrorMsg("%s: not supported by the selected package manager", what)
	case manager.KindUnknownBackend:
		ui.ErrorMsg("%s: unknown or unusable package manager", what)
	case manager.KindNoCapableBackend:
		ui.ErrorMsg("%s: no package manager can handle this", what)
	default:
		ui.ErrorMsg("%s failed", what)
	}
	ui.MutedMsg("  %v", err)

	return &reportedError{err: fmt.Errorf("%s: %w", what, err)}
}

// outcomeErr returns the error of a failed outcome, never nil.
func outcomeErr(out manager.Outcome) error {
	if out.Err != nil {
		return out.Err
	}
	return errors.New("no package manager reported success")
}
