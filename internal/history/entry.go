// Package history records pwpm operations in a BoltDB journal.
package history

import (
	"strconv"
	"strings"
	"time"
)

// Operation represents the type of package operation.
type Operation string

const (
	OpInstall        Operation = "install"
	OpUninstall      Operation = "uninstall"
	OpUpdate         Operation = "update"
	OpUpdateAll      Operation = "update-all"
	OpUpdateDatabase Operation = "update-db"
	OpAddRepo        Operation = "add-repo"
	OpRemoveRepo     Operation = "remove-repo"
	OpInstallManager Operation = "install-pm"
)

// Entry is one journalled operation.
type Entry struct {
	// ID is assigned by Store.Record.
	ID        uint64    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`

	// Backend is the backend that handled the operation. It is empty for
	// operations that ran on every backend.
	Backend string `json:"backend,omitempty"`

	// Targets are the references or repositories the operation acted on.
	Targets []string `json:"targets"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	DryRun  bool     `json:"dry_run,omitempty"`

	Reversible bool      `json:"reversible"`
	ReverseOp  Operation `json:"reverse_op,omitempty"`

	// Undo holds the reverse operation's targets when they differ from
	// Targets, e.g. the name a repository added as "<name> <url>" is
	// removed by.
	Undo []string `json:"undo,omitempty"`
	RolledBack bool      `json:"rolled_back,omitempty"`
}

// NewEntry creates a new history entry.
func NewEntry(op Operation, backend string, targets []string) *Entry {
	return &Entry{
		Timestamp:  time.Now(),
		Operation:  op,
		Backend:    backend,
		Targets:    targets,
		Reversible: isReversible(op),
		ReverseOp:  reverseOperation(op),
	}
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
	e.Error = ""
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// SetUndo records the targets the reverse operation acts on. An empty
// targets marks the entry irreversible.
func (e *Entry) SetUndo(targets []string) {
	e.Undo = targets
	e.Reversible = len(targets) > 0 && isReversible(e.Operation)
}

// UndoTargets returns the targets of the reverse operation.
func (e *Entry) UndoTargets() []string {
	if len(e.Undo) > 0 {
		return e.Undo
	}
	return e.Targets
}

func isReversible(op Operation) bool {
	return reverseOperation(op) != ""
}

// reverseOperation returns the operation that undoes op.
func reverseOperation(op Operation) Operation {
	switch op {
	case OpInstall:
		return OpUninstall
	case OpUninstall:
		return OpInstall
	case OpAddRepo:
		return OpRemoveRepo
	case OpRemoveRepo:
		return OpAddRepo
	}
	return ""
}

// CanRollback reports whether the entry can still be undone. Dry runs
// changed nothing and the backend must be known to target the reversal.
func (e *Entry) CanRollback() bool {
	return e.Reversible && e.Success && !e.DryRun && !e.RolledBack &&
		e.Backend != "" && len(e.Targets) > 0
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Status is "ok", "failed", "dry-run" or "rolled back".
func (e *Entry) Status() string {
	switch {
	case !e.Success:
		return "failed"
	case e.DryRun:
		return "dry-run"
	case e.RolledBack:
		return "rolled back"
	}
	return "ok"
}

// Summary returns a one-line description of the operation.
func (e *Entry) Summary() string {
	var b strings.Builder
	b.WriteString("#" + strconv.FormatUint(e.ID, 10) + " ")
	b.WriteString(e.FormatTime() + " " + string(e.Operation))
	if len(e.Targets) > 0 {
		b.WriteString(" " + strings.Join(e.Targets, " "))
	}
	if e.Backend != "" {
		b.WriteString(" [" + e.Backend + "]")
	}
	b.WriteString(" (" + e.Status() + ")")
	return b.String()
}
