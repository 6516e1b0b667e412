package manager

import "context"

// Runner executes shell command lines for a backend.
type Runner interface {
	CommandLookup

	// Run executes command, elevating when admin is set, and returns its exit code.
	// The error is non-nil only when the command could not be started.
	Run(ctx context.Context, command string, admin bool) (int, error)

	// Output is like Run but captures standard output. It is only used for
	// read-only queries, which run even when mutations are dry runs.
	Output(ctx context.Context, command string, admin bool) (string, int, error)

	// WriteFile replaces a file, elevating when admin is set.
	WriteFile(ctx context.Context, path string, data []byte, admin bool) error
}

// Env is what a backend needs from the process: the host it runs on and
// a way to execute commands.
type Env struct {
	Host   Host
	Runner Runner
}

// Manager is the contract every package manager backend implements.
// Operations return nil on success, an *ExecError when the underlying command
// exits with an unapproved code, or an error wrapping ErrUnsupportedOperation
// when the backend has no way to perform the operation.
type Manager interface {
	// Name returns the lower-case routing key (e.g., "apt", "brew").
	Name() string

	// Aliases returns the manager ids this backend accepts in a Reference.
	Aliases() []string

	// Capability returns the static host requirements.
	Capability() Capability

	// IsSupported reports whether the backend is usable on this host now.
	IsSupported() bool

	// IsInstallSupported reports whether the backend could install itself here.
	IsInstallSupported() bool

	// AcceptsReference reports whether ref may be routed to this backend.
	AcceptsReference(ref Reference) bool

	IsInstalled(ctx context.Context, ref Reference) (bool, error)
	Install(ctx context.Context, ref Reference) error
	Update(ctx context.Context, ref Reference) error
	Uninstall(ctx context.Context, ref Reference) error

	// UpdateDatabase refreshes the package index.
	UpdateDatabase(ctx context.Context) error

	// UpdateAll upgrades every installed package.
	UpdateAll(ctx context.Context) error

	AddRepository(ctx context.Context, repo string) error
	RemoveRepository(ctx context.Context, repo string) error

	// InstallSelf bootstraps the package manager on this host.
	InstallSelf(ctx context.Context) error
}

// IsSupportedWithInstall reports whether m is usable now or could install itself.
func IsSupportedWithInstall(m Manager) bool {
	return m.IsSupported() || m.IsInstallSupported()
}
