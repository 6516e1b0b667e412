package lock

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pwpm.lock")

	l, err := Acquire(context.Background(), path, time.Second)
	require.NoError(t, err)
	require.FileExists(t, path)

	assert.NoError(t, l.Release())
	assert.NoError(t, l.Release(), "second release is a no-op")

	again, err := Acquire(context.Background(), path, 0)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestAcquireTimesOutWhileHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwpm.lock")

	held, err := Acquire(context.Background(), path, 0)
	require.NoError(t, err)
	defer held.Release()

	start := time.Now()
	_, err = Acquire(context.Background(), path, 250*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)
}

func TestAcquireWaitsForRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwpm.lock")

	held, err := Acquire(context.Background(), path, 0)
	require.NoError(t, err)

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = held.Release()
	}()

	l, err := Acquire(context.Background(), path, 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, l.Release())
}

func TestAcquireHonoursContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwpm.lock")

	held, err := Acquire(context.Background(), path, 0)
	require.NoError(t, err)
	defer held.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Acquire(ctx, path, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWith(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwpm.lock")

	ran := false
	err := With(context.Background(), path, time.Second, func() error {
		ran = true
		_, err := Acquire(context.Background(), path, 0)
		assert.ErrorIs(t, err, ErrTimeout, "lock must be held inside fn")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	boom := errors.New("boom")
	err = With(context.Background(), path, time.Second, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	var nilLock *Lock
	assert.NoError(t, nilLock.Release())
}
