package history

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenAt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func record(t *testing.T, store *Store, op Operation, backend string, ok bool, targets ...string) *Entry {
	t.Helper()

	entry := NewEntry(op, backend, targets)
	if ok {
		entry.MarkSuccess()
	}
	if err := store.Record(entry); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	return entry
}

func TestOpenUsesDataDir(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG not used on this platform")
	}
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()

	if store == nil {
		t.Fatal("Open() returned nil")
	}
}

func TestRecord(t *testing.T) {
	store := setupTestStore(t)

	first := record(t, store, OpInstall, "apt", true, "vim", "git")
	second := record(t, store, OpUpdateAll, "", true)

	if first.ID == 0 || second.ID <= first.ID {
		t.Errorf("IDs should increase: %d, %d", first.ID, second.ID)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestList(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 5; i++ {
		record(t, store, OpInstall, "apt", true, "pkg"+string(rune('a'+i)))
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	if entries[0].Targets[0] != "pkge" {
		t.Errorf("expected newest first, got %s", entries[0].Targets[0])
	}

	entries, err = store.List(3)
	if err != nil {
		t.Fatalf("List(3) error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestGet(t *testing.T) {
	store := setupTestStore(t)

	entry := record(t, store, OpAddRepo, "flatpak", true, "flathub https://flathub.org/repo/flathub.flatpakrepo")

	got, err := store.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Backend != "flatpak" || got.Operation != OpAddRepo {
		t.Errorf("unexpected entry: %+v", got)
	}

	if _, err := store.Get(entry.ID + 100); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() of a missing ID should return ErrNotFound, got %v", err)
	}
}

func TestLast(t *testing.T) {
	store := setupTestStore(t)

	last, err := store.Last()
	if err != nil {
		t.Fatalf("Last() error: %v", err)
	}
	if last != nil {
		t.Error("Last() should return nil for an empty journal")
	}

	record(t, store, OpInstall, "apt", true, "first")
	record(t, store, OpUninstall, "apt", true, "second")

	last, err = store.Last()
	if err != nil {
		t.Fatalf("Last() error: %v", err)
	}
	if last == nil || last.Targets[0] != "second" {
		t.Errorf("expected the second entry, got %+v", last)
	}
}

func TestLastReversible(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.LastReversible(); !errors.Is(err, ErrNothingToRollback) {
		t.Errorf("expected ErrNothingToRollback, got %v", err)
	}

	install := record(t, store, OpInstall, "apt", true, "vim")
	record(t, store, OpUpdateAll, "", true)
	record(t, store, OpInstall, "dnf", false, "broken")

	entry, err := store.LastReversible()
	if err != nil {
		t.Fatalf("LastReversible() error: %v", err)
	}
	if entry.ID != install.ID {
		t.Errorf("expected entry %d, got %d", install.ID, entry.ID)
	}
}

func TestMarkRolledBack(t *testing.T) {
	store := setupTestStore(t)

	older := record(t, store, OpUninstall, "brew", true, "wget")
	newer := record(t, store, OpInstall, "apt", true, "vim")

	if err := store.MarkRolledBack(newer.ID); err != nil {
		t.Fatalf("MarkRolledBack() error: %v", err)
	}

	got, err := store.Get(newer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.RolledBack {
		t.Error("entry should be marked as rolled back")
	}

	next, err := store.LastReversible()
	if err != nil {
		t.Fatalf("LastReversible() error: %v", err)
	}
	if next.ID != older.ID {
		t.Errorf("expected older entry %d, got %d", older.ID, next.ID)
	}

	if err := store.MarkRolledBack(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 3; i++ {
		record(t, store, OpInstall, "apt", true, "pkg")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 entries after clear, got %d", count)
	}
}

func TestPrune(t *testing.T) {
	store := setupTestStore(t)

	old := NewEntry(OpInstall, "apt", []string{"old"})
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	if err := store.Record(old); err != nil {
		t.Fatal(err)
	}
	record(t, store, OpInstall, "apt", true, "new")

	deleted, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Targets[0] != "new" {
		t.Errorf("unexpected remaining entries: %+v", entries)
	}
}

func TestClose(t *testing.T) {
	store, err := OpenAt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}

	empty := &Store{}
	if err := empty.Close(); err != nil {
		t.Errorf("Close() on an unopened store should be nil, got %v", err)
	}
}
