package universal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwpm/pkg/manager"
	"pwpm/pkg/manager/managertest"
	"pwpm/pkg/manager/native"
)

var (
	linuxRoot = manager.Host{Platform: manager.PlatformLinux, Admin: true}
	linuxUser = manager.Host{Platform: manager.PlatformLinux}
	wslRoot   = manager.Host{Platform: manager.PlatformLinux, Admin: true, WSL: true}
)

func TestFlatpakCommands(t *testing.T) {
	ctx := context.Background()
	runner := managertest.NewRunner("flatpak")
	f := NewFlatpak(runner.Env(linuxUser), "")
	ref := manager.ParseReference("flatpak:org.gimp.GIMP")

	assert.True(t, f.IsSupported())
	assert.True(t, f.AcceptsReference(ref))
	assert.False(t, f.AcceptsReference(manager.ParseReference("snap:gimp")))

	installed, err := f.IsInstalled(ctx, ref)
	require.NoError(t, err)
	assert.True(t, installed)

	require.NoError(t, f.Install(ctx, ref))
	require.NoError(t, f.Update(ctx, ref))
	require.NoError(t, f.Uninstall(ctx, ref))
	require.NoError(t, f.UpdateDatabase(ctx))
	require.NoError(t, f.UpdateAll(ctx))
	require.NoError(t, f.AddRepository(ctx, "fedora oci+https://registry.fedoraproject.org"))
	require.NoError(t, f.RemoveRepository(ctx, "fedora"))

	assert.Equal(t, []string{
		"flatpak info org.gimp.GIMP",
		"flatpak install -y org.gimp.GIMP",
		"flatpak update -y org.gimp.GIMP",
		"flatpak uninstall -y org.gimp.GIMP",
		"flatpak update -y",
		"flatpak remote-add --if-not-exists fedora oci+https://registry.fedoraproject.org",
		"flatpak remote-delete fedora",
	}, runner.Commands())

	for _, call := range runner.Calls() {
		assert.False(t, call.Admin, call.Command)
	}

	assert.ErrorContains(t, f.AddRepository(ctx, "flathub"), "<name> <url>")
}

func TestFlatpakInstallSelf(t *testing.T) {
	ctx := context.Background()
	runner := managertest.NewRunner("pacman").ExitCode("pacman -Syu --noconfirm flatpak", 1)
	env := runner.Env(linuxRoot)

	apt := native.NewAPT(env, false)
	pacman := native.NewPacman(env)
	apk := native.NewAPK(env)
	f := NewFlatpak(env, "", apt, pacman, apk)

	assert.True(t, f.IsInstallSupported(), "pacman can install flatpak")
	err := f.InstallSelf(ctx)
	require.Error(t, err)
	assert.True(t, manager.IsExecFailure(err))

	runner.ExitCode("pacman -Syu --noconfirm flatpak", 0)
	require.NoError(t, f.InstallSelf(ctx))
	assert.Equal(t, []string{
		"pacman -Syu --noconfirm flatpak",
		"pacman -Syu --noconfirm flatpak",
		"flatpak remote-add --if-not-exists flathub https://flathub.org/repo/flathub.flatpakrepo",
	}, runner.Commands(), "unsupported delegates are skipped")
}

func TestFlatpakInstallSelfWithoutDelegates(t *testing.T) {
	runner := managertest.NewRunner()
	f := NewFlatpak(runner.Env(linuxRoot), "", native.NewAPT(runner.Env(linuxRoot), true))

	assert.False(t, f.IsInstallSupported())
	assert.ErrorIs(t, f.InstallSelf(context.Background()), manager.ErrNoCapableBackend)
	assert.Empty(t, runner.Commands())
}

func TestSnapCommands(t *testing.T) {
	ctx := context.Background()
	runner := managertest.NewRunner("snap")
	s := NewSnap(runner.Env(linuxUser), true)
	ref := manager.ParseReference("snapcraft:code")

	assert.True(t, s.AcceptsReference(ref))
	require.NoError(t, s.Install(ctx, ref))
	require.NoError(t, s.Update(ctx, ref))
	require.NoError(t, s.Uninstall(ctx, ref))
	require.NoError(t, s.UpdateAll(ctx))

	assert.Equal(t, []string{
		"snap install --classic code",
		"snap refresh code",
		"snap remove code",
		"snap refresh",
	}, runner.Commands())

	assert.True(t, manager.IsUnsupported(s.AddRepository(ctx, "x")))
	assert.True(t, manager.IsUnsupported(s.RemoveRepository(ctx, "x")))
}

func TestSnapRejectsWSL(t *testing.T) {
	runner := managertest.NewRunner("snap", "apt", "dpkg", "add-apt-repository")
	env := runner.Env(wslRoot)
	s := NewSnap(env, false, native.NewAPT(env, false))

	assert.False(t, s.IsSupported())
	assert.False(t, s.IsInstallSupported())
	assert.Equal(t, manager.ReasonWSL, s.Capability().Diagnose(env.Host, runner, manager.CheckOpts{}))
}

func TestSnapInstallSelf(t *testing.T) {
	tests := []struct {
		name  string
		tools []string
		files map[string]bool
		want  []string
	}{
		{
			name:  "apt",
			tools: []string{"apt", "dpkg", "add-apt-repository"},
			want: []string{
				"apt install -y snapd",
				"systemctl enable --now snapd.socket",
			},
		},
		{
			name:  "dnf on fedora",
			tools: []string{"dnf"},
			files: map[string]bool{"/etc/fedora-release": true},
			want: []string{
				"dnf install -y snapd",
				"systemctl enable --now snapd.socket",
				"ln -sfn /var/lib/snapd/snap /snap",
			},
		},
		{
			name:  "dnf on centos",
			tools: []string{"dnf"},
			want: []string{
				"dnf install -y epel-release",
				"dnf install -y snapd",
				"systemctl enable --now snapd.socket",
				"ln -sfn /var/lib/snapd/snap /snap",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := managertest.NewRunner(tt.tools...)
			env := runner.Env(linuxRoot)
			s := NewSnap(env, false,
				native.NewPacman(env), native.NewAPT(env, false), native.NewDNF(env), native.NewYUM(env))
			s.fileExists = func(path string) bool { return tt.files[path] }

			assert.True(t, s.IsInstallSupported())
			require.NoError(t, s.InstallSelf(context.Background()))
			assert.Equal(t, tt.want, runner.Commands())

			calls := runner.Calls()
			assert.True(t, calls[len(calls)-1].Admin, "system setup runs elevated")
		})
	}
}

func TestSnapInstallSelfSkipsRHELWithoutEPEL(t *testing.T) {
	runner := managertest.NewRunner("dnf").ExitCode("dnf install -y epel-release", 1)
	env := runner.Env(linuxRoot)
	s := NewSnap(env, false, native.NewDNF(env))
	s.fileExists = func(path string) bool { return path == "/etc/redhat-release" }

	err := s.InstallSelf(context.Background())
	assert.ErrorIs(t, err, manager.ErrNoCapableBackend)
	assert.Equal(t, []string{"dnf install -y epel-release"}, runner.Commands())
}

func TestSnapInstallSupportedNeedsAdmin(t *testing.T) {
	runner := managertest.NewRunner("flatpak")
	env := runner.Env(linuxUser)
	s := NewSnap(env, false, native.NewDNF(env))
	assert.False(t, s.IsInstallSupported())
}
