package native

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwpm/pkg/manager"
	"pwpm/pkg/manager/managertest"
)

const sampleConf = `[options]
HoldPkg = pacman glibc
Architecture = auto

[core]
Include = /etc/pacman.d/mirrorlist

[chaotic-aur]
Server = https://cdn-mirror.chaotic.cx/$repo/$arch
SigLevel = Never

#[multilib]
#Include = /etc/pacman.d/mirrorlist

[extra]
Include = /etc/pacman.d/mirrorlist
`

func newTestPacman(runner *managertest.Runner) *Pacman {
	p := NewPacman(runner.Env(linuxRoot))
	p.readFile = func(path string) ([]byte, error) {
		data, ok := runner.File(path)
		if !ok {
			return nil, os.ErrNotExist
		}
		return data, nil
	}
	return p
}

func TestRemovePacmanRepo(t *testing.T) {
	tests := []struct {
		name  string
		repo  string
		found bool
		want  string
	}{
		{
			name:  "section before commented header",
			repo:  "chaotic-aur",
			found: true,
			want: `[options]
HoldPkg = pacman glibc
Architecture = auto

[core]
Include = /etc/pacman.d/mirrorlist

#[multilib]
#Include = /etc/pacman.d/mirrorlist

[extra]
Include = /etc/pacman.d/mirrorlist
`,
		},
		{
			name:  "last section",
			repo:  "extra",
			found: true,
			want: `[options]
HoldPkg = pacman glibc
Architecture = auto

[core]
Include = /etc/pacman.d/mirrorlist

[chaotic-aur]
Server = https://cdn-mirror.chaotic.cx/$repo/$arch
SigLevel = Never

#[multilib]
#Include = /etc/pacman.d/mirrorlist

`,
		},
		{
			name:  "missing",
			repo:  "testing",
			found: false,
			want:  sampleConf,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := removePacmanRepo([]byte(sampleConf), tt.repo)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestAppendPacmanRepo(t *testing.T) {
	got := appendPacmanRepo([]byte("[core]\nInclude = /etc/pacman.d/mirrorlist"), "custom",
		[]string{"https://a.example.com/$arch", "https://b.example.com/$arch"})

	want := "[core]\nInclude = /etc/pacman.d/mirrorlist\n\n[custom]\nServer = https://a.example.com/$arch\nServer = https://b.example.com/$arch\n"
	assert.Equal(t, want, string(got))
	assert.True(t, hasPacmanRepo(got, "custom"))
	assert.False(t, hasPacmanRepo(got, "cust"))
}

func TestPacmanRepositories(t *testing.T) {
	ctx := context.Background()
	runner := managertest.NewRunner("pacman")
	runner.SetFile(pacmanConf, []byte(sampleConf))
	p := newTestPacman(runner)

	require.NoError(t, p.AddRepository(ctx, "custom https://repo.example.com/$arch"))
	conf, _ := runner.File(pacmanConf)
	assert.Contains(t, string(conf), "[custom]\nServer = https://repo.example.com/$arch\n")
	assert.Equal(t, []string{"pacman -Syy"}, runner.Commands(), "adding a repository refreshes the databases")

	err := p.AddRepository(ctx, "custom https://other.example.com")
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, p.RemoveRepository(ctx, "custom"))
	conf, _ = runner.File(pacmanConf)
	assert.NotContains(t, string(conf), "[custom]")
	assert.Contains(t, string(conf), "[extra]")

	assert.ErrorContains(t, p.RemoveRepository(ctx, "custom"), "not found")

	spec := "undo https://repo.example.com/$arch"
	require.NoError(t, p.AddRepository(ctx, spec))
	key, ok := manager.UndoAddRepository(p, spec)
	require.True(t, ok)
	require.NoError(t, p.RemoveRepository(ctx, key))
	conf, _ = runner.File(pacmanConf)
	assert.NotContains(t, string(conf), "[undo]")

	assert.ErrorContains(t, p.AddRepository(ctx, "nourl"), "<name> <server-url>")
}

func TestPacmanTrustKey(t *testing.T) {
	runner := managertest.NewRunner("pacman")
	p := NewPacman(runner.Env(linuxRoot))

	require.NoError(t, p.TrustKey(context.Background(), "3056513887B78AEB"))
	assert.Equal(t, []string{
		"pacman-key --recv-keys 3056513887B78AEB",
		"pacman-key --finger 3056513887B78AEB",
		"pacman-key --lsign-key 3056513887B78AEB",
	}, runner.Commands())
}

func TestPacmanTrustKeyStopsOnFailure(t *testing.T) {
	runner := managertest.NewRunner("pacman").ExitCode("pacman-key --recv-keys BAD", 1)
	p := NewPacman(runner.Env(linuxRoot))

	require.Error(t, p.TrustKey(context.Background(), "BAD"))
	assert.Len(t, runner.Commands(), 1)
}
