// Package lock serializes mutating pwpm invocations with an advisory file
// lock, so two processes never drive the system package managers at once.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrTimeout is returned when another process held the lock for the whole
// wait.
var ErrTimeout = errors.New("timed out waiting for another pwpm process")

var pollEvery = 100 * time.Millisecond

// errBusy is returned by tryLock when another holder owns the lock.
var errBusy = errors.New("lock busy")

// Lock is an exclusive lock on a file.
type Lock struct {
	file *os.File
}

// Acquire opens or creates path and takes an exclusive lock on it, polling
// until timeout elapses or ctx is done. A timeout of zero or less tries once.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err := tryLock(file)
		if err == nil {
			return &Lock{file: file}, nil
		}
		if !errors.Is(err, errBusy) {
			_ = file.Close()
			return nil, fmt.Errorf("lock %s: %w", path, err)
		}
		if !time.Now().Before(deadline) {
			_ = file.Close()
			return nil, fmt.Errorf("%w (%s, waited %s)", ErrTimeout, path, timeout)
		}

		select {
		case <-ctx.Done():
			_ = file.Close()
			return nil, ctx.Err()
		case <-time.After(pollEvery):
		}
	}
}

// Release unlocks and closes the lock file. It is safe to call on a nil
// Lock and more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := unlock(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// With acquires the lock at path, runs fn, and releases the lock.
func With(ctx context.Context, path string, timeout time.Duration, fn func() error) error {
	l, err := Acquire(ctx, path, timeout)
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Release()
	}()
	return fn()
}
