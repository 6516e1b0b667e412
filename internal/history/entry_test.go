package history

import (
	"strings"
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	entry := NewEntry(OpInstall, "apt", []string{"vim", "git"})

	if entry.ID != 0 {
		t.Error("entry ID should be assigned on record")
	}
	if entry.Operation != OpInstall {
		t.Errorf("expected Operation Install, got %s", entry.Operation)
	}
	if entry.Backend != "apt" {
		t.Errorf("expected Backend 'apt', got '%s'", entry.Backend)
	}
	if len(entry.Targets) != 2 {
		t.Errorf("expected 2 targets, got %d", len(entry.Targets))
	}
	if entry.Success {
		t.Error("new entry should have Success = false")
	}
	if entry.Timestamp.IsZero() {
		t.Error("entry timestamp should be set")
	}
}

func TestEntryMarkSuccess(t *testing.T) {
	entry := NewEntry(OpInstall, "apt", []string{"vim"})
	entry.MarkFailed(&testError{"boom"})
	entry.MarkSuccess()

	if !entry.Success {
		t.Error("MarkSuccess() should set Success to true")
	}
	if entry.Error != "" {
		t.Errorf("MarkSuccess() should clear the error, got %q", entry.Error)
	}
}

func TestEntryMarkFailed(t *testing.T) {
	entry := NewEntry(OpInstall, "apt", []string{"vim"})
	entry.MarkSuccess()
	entry.MarkFailed(&testError{"apt: apt install -y vim: exit status 100"})

	if entry.Success {
		t.Error("MarkFailed() should set Success to false")
	}
	if entry.Error != "apt: apt install -y vim: exit status 100" {
		t.Errorf("unexpected error message: %s", entry.Error)
	}

	entry2 := NewEntry(OpInstall, "apt", []string{"vim"})
	entry2.MarkFailed(nil)
	if entry2.Error != "" {
		t.Error("MarkFailed(nil) should not set an error message")
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestReverseOperation(t *testing.T) {
	tests := []struct {
		op       Operation
		expected Operation
	}{
		{OpInstall, OpUninstall},
		{OpUninstall, OpInstall},
		{OpAddRepo, OpRemoveRepo},
		{OpRemoveRepo, OpAddRepo},
		{OpUpdate, ""},
		{OpUpdateAll, ""},
		{OpUpdateDatabase, ""},
		{OpInstallManager, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			if got := reverseOperation(tt.op); got != tt.expected {
				t.Errorf("reverseOperation(%s) = %s, want %s", tt.op, got, tt.expected)
			}
			if got := isReversible(tt.op); got != (tt.expected != "") {
				t.Errorf("isReversible(%s) = %v", tt.op, got)
			}
		})
	}
}

func TestCanRollback(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Entry)
		want   bool
	}{
		{"successful install", func(e *Entry) { e.MarkSuccess() }, true},
		{"failed install", func(e *Entry) {}, false},
		{"dry run", func(e *Entry) { e.MarkSuccess(); e.DryRun = true }, false},
		{"already rolled back", func(e *Entry) { e.MarkSuccess(); e.RolledBack = true }, false},
		{"no backend", func(e *Entry) { e.MarkSuccess(); e.Backend = "" }, false},
		{"no targets", func(e *Entry) { e.MarkSuccess(); e.Targets = nil }, false},
		{"update", func(e *Entry) { e.MarkSuccess(); e.Reversible = false }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry(OpInstall, "apt", []string{"vim"})
			tt.modify(entry)
			if got := entry.CanRollback(); got != tt.want {
				t.Errorf("CanRollback() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetUndo(t *testing.T) {
	entry := NewEntry(OpAddRepo, "flatpak", []string{"flathub https://flathub.org/repo/flathub.flatpakrepo"})
	entry.MarkSuccess()

	if got := entry.UndoTargets(); len(got) != 1 || got[0] != entry.Targets[0] {
		t.Errorf("UndoTargets() without Undo = %v, want Targets", got)
	}

	entry.SetUndo([]string{"flathub"})
	if got := entry.UndoTargets(); len(got) != 1 || got[0] != "flathub" {
		t.Errorf("UndoTargets() = %v, want [flathub]", got)
	}
	if !entry.CanRollback() {
		t.Error("entry with undo targets should be reversible")
	}

	entry.SetUndo(nil)
	if entry.CanRollback() {
		t.Error("SetUndo(nil) should make the entry irreversible")
	}

	update := NewEntry(OpUpdate, "apt", []string{"vim"})
	update.MarkSuccess()
	update.SetUndo([]string{"vim"})
	if update.CanRollback() {
		t.Error("SetUndo() must not make an update reversible")
	}
}

func TestFormatTime(t *testing.T) {
	entry := &Entry{
		Timestamp: time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
	}

	expected := "2024-01-15 10:30:45"
	if got := entry.FormatTime(); got != expected {
		t.Errorf("FormatTime() = %s, want %s", got, expected)
	}
}

func TestSummary(t *testing.T) {
	entry := &Entry{
		ID:        7,
		Timestamp: time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
		Operation: OpInstall,
		Backend:   "apt",
		Targets:   []string{"vim", "git"},
		Success:   true,
	}

	want := "#7 2024-01-15 10:30:45 install vim git [apt] (ok)"
	if got := entry.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	entry.Success = false
	if !strings.HasSuffix(entry.Summary(), "(failed)") {
		t.Errorf("failed summary should end with (failed): %s", entry.Summary())
	}

	all := &Entry{ID: 8, Timestamp: entry.Timestamp, Operation: OpUpdateAll, Success: true}
	if got := all.Summary(); got != "#8 2024-01-15 10:30:45 update-all (ok)" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestStatus(t *testing.T) {
	e := &Entry{Success: true}
	if e.Status() != "ok" {
		t.Errorf("Status() = %s", e.Status())
	}
	e.RolledBack = true
	if e.Status() != "rolled back" {
		t.Errorf("Status() = %s", e.Status())
	}
	e.DryRun = true
	if e.Status() != "dry-run" {
		t.Errorf("Status() = %s", e.Status())
	}
	e.Success = false
	if e.Status() != "failed" {
		t.Errorf("Status() = %s", e.Status())
	}
}
