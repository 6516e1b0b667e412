//go:build !windows

package native

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwpm/internal/executor"
	"pwpm/pkg/manager"
)

func TestProbeRunsInDryRun(t *testing.T) {
	var buf bytes.Buffer
	exec := executor.New(executor.Options{DryRun: true}).WithOutput(&buf)
	b := NewBaseManager("test", nil, manager.Capability{DisplayName: "Test"}, manager.Env{Host: linuxUser, Runner: exec})
	ctx := context.Background()

	installed, err := b.Probe(ctx, "false")
	require.NoError(t, err)
	assert.False(t, installed, "a failing query must not look installed")

	installed, err = b.Probe(ctx, "true")
	require.NoError(t, err)
	assert.True(t, installed)

	require.NoError(t, b.Exec(ctx, "false", false))
	assert.Contains(t, buf.String(), "[dry-run] Would execute: false")
}
