package manager

import (
	"errors"
)

// Kind tags the result of a dispatched operation.
type Kind int

const (
	KindOK Kind = iota
	KindFailed
	KindUnsupported
	KindUnknownBackend
	KindNoCapableBackend
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindFailed:
		return "failed"
	case KindUnsupported:
		return "unsupported"
	case KindUnknownBackend:
		return "unknown backend"
	case KindNoCapableBackend:
		return "no capable backend"
	}
	return "unknown"
}

// Attempt records one backend invocation made while dispatching.
type Attempt struct {
	Backend string
	OK      bool
	Err     error
}

// Outcome is the result of a dispatched operation.
type Outcome struct {
	// OK is the aggregated boolean result.
	OK bool

	// Backend is the backend whose success decided an ANY operation.
	Backend string

	// Attempts lists every backend invoked, in order.
	Attempts []Attempt

	// Err explains a false result. It is nil when OK is true.
	Err error
}

// Kind classifies the outcome.
func (o Outcome) Kind() Kind {
	switch {
	case o.OK:
		return KindOK
	case errors.Is(o.Err, ErrUnknownBackend):
		return KindUnknownBackend
	case errors.Is(o.Err, ErrNoCapableBackend):
		return KindNoCapableBackend
	case IsExecFailure(o.Err):
		return KindFailed
	case IsUnsupported(o.Err):
		return KindUnsupported
	}
	return KindFailed
}

// Invoked returns the names of the backends that were invoked, in order.
func (o Outcome) Invoked() []string {
	names := make([]string, len(o.Attempts))
	for i, a := range o.Attempts {
		names[i] = a.Backend
	}
	return names
}

func okOutcome(backend string, attempts []Attempt) Outcome {
	return Outcome{OK: true, Backend: backend, Attempts: attempts}
}

func failedOutcome(err error, attempts []Attempt) Outcome {
	return Outcome{Err: err, Attempts: attempts}
}
