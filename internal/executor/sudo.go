package executor

import "errors"

// ErrNoPrivileges is returned when a command needs elevation but neither
// running as administrator nor an elevation helper is available.
var ErrNoPrivileges = errors.New("this operation requires administrator privileges, but no elevation helper is available")

// IsRoot reports whether the process runs as root or administrator.
func IsRoot() bool {
	return isRoot()
}

// IsAdmin is IsRoot under the name used by capability checks.
func (e *Executor) IsAdmin() bool {
	return isRoot()
}

// HasSudo reports whether an elevation helper is installed.
func HasSudo() bool {
	return elevator() != ""
}

// CanElevate reports whether commands can run with administrator privileges.
func CanElevate() bool {
	return isRoot() || HasSudo()
}

// CheckPrivileges returns ErrNoPrivileges when admin is needed but unavailable.
func CheckPrivileges(admin bool) error {
	if admin && !CanElevate() {
		return ErrNoPrivileges
	}
	return nil
}
