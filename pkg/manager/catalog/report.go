package catalog

import (
	"strings"

	"pwpm/pkg/manager"
)

// Status is how usable a backend is on the current host.
type Status int

const (
	StatusUsable Status = iota
	StatusInstallable
	StatusUnusable
)

func (s Status) String() string {
	switch s {
	case StatusUsable:
		return "usable"
	case StatusInstallable:
		return "installable"
	}
	return "unusable"
}

// Report describes one backend for listings and diagnostics.
type Report struct {
	Name       string
	Aliases    []string
	Capability manager.Capability
	Status     Status

	// Reason is the first failing capability check, or ReasonOK.
	Reason manager.Reason

	// Missing lists the required command groups not found on PATH.
	Missing []string
}

// Describe checks m against the host in env.
func Describe(m manager.Manager, env manager.Env) Report {
	c := m.Capability()
	r := Report{
		Name:       m.Name(),
		Aliases:    m.Aliases(),
		Capability: c,
		Reason:     c.Diagnose(env.Host, env.Runner, manager.CheckOpts{}),
		Missing:    c.MissingCommands(env.Runner),
	}

	switch {
	case m.IsSupported():
		r.Status = StatusUsable
	case m.IsInstallSupported():
		r.Status = StatusInstallable
	default:
		r.Status = StatusUnusable
	}
	return r
}

// DescribeAll describes every backend in ms, keeping their order.
func DescribeAll(ms []manager.Manager, env manager.Env) []Report {
	reports := make([]Report, len(ms))
	for i, m := range ms {
		reports[i] = Describe(m, env)
	}
	return reports
}

// Detail is a one-line explanation of the status, empty when usable.
func (r Report) Detail() string {
	if r.Status == StatusUsable {
		return ""
	}
	if r.Reason == manager.ReasonMissingCommand && len(r.Missing) > 0 {
		return "missing " + strings.Join(r.Missing, ", ")
	}
	if r.Reason == manager.ReasonOK {
		return ""
	}
	return r.Reason.String()
}

// Platforms returns the supported platforms as strings.
func (r Report) Platforms() []string {
	out := make([]string, len(r.Capability.Platforms))
	for i, p := range r.Capability.Platforms {
		out[i] = string(p)
	}
	return out
}

// Privileges describes the backend's admin requirement.
func (r Report) Privileges() string {
	switch {
	case r.Capability.RequiresAdmin:
		return "requires admin"
	case r.Capability.IncompatibleWithAdmin:
		return "must not run as admin"
	}
	return "any"
}
