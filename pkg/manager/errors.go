package manager

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation is returned when a backend has no way to perform an operation.
	ErrUnsupportedOperation = errors.New("operation not supported")

	// ErrUnknownBackend is returned when a named backend is not in the dispatcher.
	ErrUnknownBackend = errors.New("unknown package manager")

	// ErrNoCapableBackend is returned when no backend accepted the request.
	ErrNoCapableBackend = errors.New("no package manager can handle the request")

	// ErrDuplicateBackend is returned when two backends share a name.
	ErrDuplicateBackend = errors.New("duplicate package manager name")

	// ErrInvalidCapability is returned for contradictory capability declarations.
	ErrInvalidCapability = errors.New("invalid capability")
)

// Unsupported returns an error wrapping ErrUnsupportedOperation for backend and op.
func Unsupported(backend, op string) error {
	return fmt.Errorf("%s does not support %s: %w", backend, op, ErrUnsupportedOperation)
}

// IsUnsupported reports whether err signals an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// ExecError is returned when a command ran but exited with an unapproved code.
type ExecError struct {
	Backend  string
	Command  string
	ExitCode int

	// Err is set when the command could not be started at all.
	Err error
}

func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Backend, e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %s: exit status %d", e.Backend, e.Command, e.ExitCode)
}

// Unwrap returns the start error, if any.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// IsExecFailure reports whether err contains an *ExecError.
func IsExecFailure(err error) bool {
	var execErr *ExecError
	return errors.As(err, &execErr)
}
