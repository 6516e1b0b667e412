package manager

import (
	"fmt"
	"strings"
	"sync"
)

// CommandLookup reports whether an executable can be found on the host.
type CommandLookup interface {
	Exists(name string) bool
}

// LookupFunc adapts a function to the CommandLookup interface.
type LookupFunc func(name string) bool

// Exists calls f(name).
func (f LookupFunc) Exists(name string) bool {
	return f(name)
}

// CommandGroup is a required command with interchangeable alternatives.
// The group is satisfied when any one of its commands exists.
type CommandGroup []string

// Cmd declares a single required command.
func Cmd(name string) CommandGroup {
	return CommandGroup{name}
}

// OneOf declares a requirement satisfied by any of the given commands.
func OneOf(names ...string) CommandGroup {
	return CommandGroup(names)
}

// Available reports whether at least one command of the group exists.
func (g CommandGroup) Available(lookup CommandLookup) bool {
	for _, name := range g {
		if lookup.Exists(name) {
			return true
		}
	}
	return false
}

func (g CommandGroup) String() string {
	return strings.Join(g, "|")
}

// Host describes the machine a capability is checked against.
type Host struct {
	Platform Platform
	Admin    bool
	WSL      bool
}

// CheckOpts relaxes parts of a capability check.
type CheckOpts struct {
	// IgnoreCommands skips the required command lookup. Used when the
	// backend is about to be installed and its commands can't exist yet.
	IgnoreCommands bool

	// IgnoreAdminConflict skips the incompatible-with-admin check.
	IgnoreAdminConflict bool
}

// Reason is the outcome of a capability check.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonWSL
	ReasonNeedsAdmin
	ReasonAdminConflict
	ReasonPlatform
	ReasonMissingCommand
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "usable"
	case ReasonWSL:
		return "not supported under WSL"
	case ReasonNeedsAdmin:
		return "requires administrator privileges"
	case ReasonAdminConflict:
		return "must not run as administrator"
	case ReasonPlatform:
		return "not available on this platform"
	case ReasonMissingCommand:
		return "required command not found"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Capability declares what a backend needs from the host.
type Capability struct {
	// DisplayName is a human readable name, e.g. "APT (Debian/Ubuntu)".
	DisplayName string
	Category    Category
	Platforms   []Platform

	RequiresAdmin         bool
	IncompatibleWithAdmin bool

	// NoWSL marks backends that can't work under the Windows Subsystem for Linux.
	NoWSL bool

	Requires []CommandGroup
}

// SupportsWSL reports whether the backend works under WSL.
func (c Capability) SupportsWSL() bool {
	return !c.NoWSL
}

// SupportsPlatform reports whether p is one of the declared platforms.
func (c Capability) SupportsPlatform(p Platform) bool {
	for _, supported := range c.Platforms {
		if supported == p {
			return true
		}
	}
	return false
}

// Validate rejects contradictory declarations.
func (c Capability) Validate() error {
	if c.RequiresAdmin && c.IncompatibleWithAdmin {
		return fmt.Errorf("%s: requires admin and is incompatible with admin: %w", c.DisplayName, ErrInvalidCapability)
	}
	if len(c.Platforms) == 0 {
		return fmt.Errorf("%s: no platforms declared: %w", c.DisplayName, ErrInvalidCapability)
	}
	return nil
}

// Diagnose runs the capability check and returns the first failing reason.
// Checks run in a fixed order: WSL, admin required, admin conflict,
// platform, then commands.
func (c Capability) Diagnose(h Host, lookup CommandLookup, opts CheckOpts) Reason {
	if !c.SupportsWSL() && h.WSL {
		return ReasonWSL
	}
	if c.RequiresAdmin && !h.Admin {
		return ReasonNeedsAdmin
	}
	if !opts.IgnoreAdminConflict && c.IncompatibleWithAdmin && h.Admin {
		return ReasonAdminConflict
	}
	if !c.SupportsPlatform(h.Platform) {
		return ReasonPlatform
	}
	if !opts.IgnoreCommands {
		for _, group := range c.Requires {
			if !group.Available(lookup) {
				return ReasonMissingCommand
			}
		}
	}
	return ReasonOK
}

// IsUsable reports whether the backend can run on h.
func (c Capability) IsUsable(h Host, lookup CommandLookup, opts CheckOpts) bool {
	return c.Diagnose(h, lookup, opts) == ReasonOK
}

// MissingCommands lists the command groups not satisfied on the host.
func (c Capability) MissingCommands(lookup CommandLookup) []string {
	var missing []string
	for _, group := range c.Requires {
		if !group.Available(lookup) {
			missing = append(missing, group.String())
		}
	}
	return missing
}

// ResolveOneOf returns the first candidate that exists. When none exists it
// returns the first candidate and unavailable set to true.
func ResolveOneOf(lookup CommandLookup, candidates ...string) (chosen string, unavailable bool) {
	for _, name := range candidates {
		if lookup.Exists(name) {
			return name, false
		}
	}
	if len(candidates) == 0 {
		return "", true
	}
	return candidates[0], true
}

// CommandResolver memoizes a ResolveOneOf result for the lifetime of a backend.
type CommandResolver struct {
	candidates []string

	once        sync.Once
	chosen      string
	unavailable bool
}

// NewCommandResolver creates a resolver over candidates in preference order.
func NewCommandResolver(candidates ...string) *CommandResolver {
	return &CommandResolver{candidates: candidates}
}

// Resolve resolves the command on first use and returns the cached result afterwards.
func (r *CommandResolver) Resolve(lookup CommandLookup) (string, bool) {
	r.once.Do(func() {
		r.chosen, r.unavailable = ResolveOneOf(lookup, r.candidates...)
	})
	return r.chosen, r.unavailable
}

// Candidates returns the commands in preference order.
func (r *CommandResolver) Candidates() []string {
	return r.candidates
}
