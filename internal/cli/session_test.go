package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwpm/internal/config"
	"pwpm/internal/history"
	"pwpm/pkg/manager"
	"pwpm/pkg/manager/catalog"
	"pwpm/pkg/manager/detector"
	"pwpm/pkg/manager/managertest"
)

// aptRunner has apt and flatpak installed.
func aptRunner() *managertest.Runner {
	return managertest.NewRunner("dpkg", "add-apt-repository", "apt", "flatpak")
}

func testSession(t *testing.T, runner *managertest.Runner, edit func(*config.Config)) *session {
	t.Helper()

	c := config.Default()
	c.General.LockTimeout = time.Second
	if edit != nil {
		edit(c)
	}

	info := &detector.SystemInfo{
		Platform:     manager.PlatformLinux,
		Arch:         "amd64",
		Distribution: "ubuntu",
		DistroFamily: []string{"debian"},
	}
	s, err := newSessionWith(c, info, runner.Env(info.Host(true)))
	require.NoError(t, err)

	dir := t.TempDir()
	s.lockPath = filepath.Join(dir, "pwpm.lock")
	s.historyPath = filepath.Join(dir, "data", "history.db")
	return s
}

func journal(t *testing.T, s *session) []history.Entry {
	t.Helper()
	store, err := s.openHistory()
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.List(0)
	require.NoError(t, err)
	return entries
}

func TestSessionDispatchOrder(t *testing.T) {
	s := testSession(t, aptRunner(), func(c *config.Config) {
		c.General.Priority = []string{"flatpak"}
	})
	assert.Equal(t, []string{"flatpak", "apt"}, s.disp.Names())
	assert.Len(t, s.all, len(catalog.Names()))
}

func TestSessionReferencesResolveAliases(t *testing.T) {
	s := testSession(t, aptRunner(), func(c *config.Config) {
		c.Aliases["vim"] = "neovim"
	})

	refs := s.references([]string{"vim", "apt:vim", "git"})
	require.Len(t, refs, 3)
	assert.Equal(t, "neovim", refs[0].String())
	assert.Equal(t, "apt:neovim", refs[1].String())
	assert.Equal(t, "git", refs[2].String())
}

func TestApplyAttributesBackend(t *testing.T) {
	runner := aptRunner()
	s := testSession(t, runner, nil)

	refs := manager.ParseReferences([]string{"vim", "flatpak:org.gimp.GIMP"})
	out, entries := s.apply(context.Background(), installOp, "", refs)

	require.True(t, out.OK)
	require.Len(t, entries, 2)
	assert.Equal(t, "apt", entries[0].Backend)
	assert.Equal(t, []string{"vim"}, entries[0].Targets)
	assert.Equal(t, "flatpak", entries[1].Backend)
	assert.Equal(t, []string{"flatpak:org.gimp.GIMP"}, entries[1].Targets)
	assert.Contains(t, runner.Commands(), "apt install -y vim")
	assert.Contains(t, runner.Commands(), "flatpak install -y org.gimp.GIMP")
}

func TestApplyFailure(t *testing.T) {
	runner := aptRunner().ExitCode("apt remove -y vim", 100)
	s := testSession(t, runner, nil)

	out, entries := s.apply(context.Background(), uninstallOp, "apt", manager.ParseReferences([]string{"vim"}))

	assert.False(t, out.OK)
	assert.Equal(t, manager.KindFailed, out.Kind())
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.NotEmpty(t, entries[0].Error)
	assert.Equal(t, "apt", entries[0].Backend)
	assert.Equal(t, []string{"apt remove -y vim"}, runner.Commands())
}

func TestApplyUnknownBackend(t *testing.T) {
	runner := aptRunner()
	s := testSession(t, runner, nil)

	out, _ := s.apply(context.Background(), installOp, "winget", manager.ParseReferences([]string{"vim"}))

	assert.False(t, out.OK)
	assert.Equal(t, manager.KindUnknownBackend, out.Kind())
	assert.Nil(t, runner.Commands())
}

func TestMutateRecordsHistory(t *testing.T) {
	s := testSession(t, aptRunner(), nil)
	ctx := context.Background()
	refs := manager.ParseReferences([]string{"vim"})

	err := s.mutate(ctx, "Install", func() (manager.Outcome, []*history.Entry) {
		return s.apply(ctx, installOp, "", refs)
	})
	require.NoError(t, err)

	entries := journal(t, s)
	require.Len(t, entries, 1)
	assert.Equal(t, history.OpInstall, entries[0].Operation)
	assert.Equal(t, "apt", entries[0].Backend)
	assert.True(t, entries[0].Success)
	assert.True(t, entries[0].CanRollback())
}

func TestMutateDryRun(t *testing.T) {
	s := testSession(t, aptRunner(), func(c *config.Config) {
		c.General.DryRun = true
	})
	ctx := context.Background()

	err := s.mutate(ctx, "Install", func() (manager.Outcome, []*history.Entry) {
		return s.apply(ctx, installOp, "", manager.ParseReferences([]string{"vim"}))
	})
	require.NoError(t, err)

	entries := journal(t, s)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].DryRun)
	assert.False(t, entries[0].CanRollback())
}

func TestMutateFailureIsReported(t *testing.T) {
	s := testSession(t, aptRunner().ExitCode("apt install -y vim", 100), func(c *config.Config) {
		c.General.Backends = []string{"apt"}
	})
	ctx := context.Background()

	err := s.mutate(ctx, "Install", func() (manager.Outcome, []*history.Entry) {
		return s.apply(ctx, installOp, "", manager.ParseReferences([]string{"vim"}))
	})
	require.Error(t, err)
	assert.True(t, reported(err))
	assert.True(t, manager.IsExecFailure(err))

	entries := journal(t, s)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
}

func TestUpdateDatabaseEntry(t *testing.T) {
	runner := aptRunner()
	s := testSession(t, runner, nil)
	ctx := context.Background()

	out, entries := s.updateDatabase(ctx, "", true)
	require.True(t, out.OK)
	assert.Equal(t, []string{"apt", "flatpak"}, out.Invoked())
	require.Len(t, entries, 1)
	assert.Equal(t, history.OpUpdateDatabase, entries[0].Operation)
	assert.Empty(t, entries[0].Backend)

	out, entries = s.updateDatabase(ctx, "apt", false)
	require.True(t, out.OK)
	assert.Equal(t, "apt", entries[0].Backend)
}

func TestUpdateAllNamed(t *testing.T) {
	runner := aptRunner()
	s := testSession(t, runner, nil)

	out, entries := s.updateAll(context.Background(), "APT")
	require.True(t, out.OK)
	assert.Equal(t, "apt", entries[0].Backend)
	assert.Equal(t, []string{"apt update -y", "apt upgrade -y", "apt autoremove -y"}, runner.Commands())
}

func TestRollbackInstall(t *testing.T) {
	runner := aptRunner()
	s := testSession(t, runner, nil)
	ctx := context.Background()

	err := s.mutate(ctx, "Install", func() (manager.Outcome, []*history.Entry) {
		return s.apply(ctx, installOp, "", manager.ParseReferences([]string{"vim"}))
	})
	require.NoError(t, err)

	entry, err := s.rollbackTarget(0, false)
	require.NoError(t, err)
	assert.Equal(t, history.OpUninstall, entry.ReverseOp)

	out, entries := s.rollback(ctx, entry)
	require.True(t, out.OK)
	require.Len(t, entries, 1)
	assert.Equal(t, history.OpUninstall, entries[0].Operation)
	assert.Equal(t, "apt remove -y vim", runner.Commands()[len(runner.Commands())-1])

	require.NoError(t, s.markRolledBack(entry.ID))
	_, err = s.rollbackTarget(0, false)
	assert.ErrorIs(t, err, history.ErrNothingToRollback)
}

func TestRollbackRepository(t *testing.T) {
	runner := aptRunner()
	s := testSession(t, runner, nil)

	entry := history.NewEntry(history.OpAddRepo, "apt", []string{"ppa:neovim-ppa/stable"})
	entry.MarkSuccess()

	out, entries := s.rollback(context.Background(), entry)
	require.True(t, out.OK)
	require.Len(t, entries, 1)
	assert.Equal(t, history.OpRemoveRepo, entries[0].Operation)
	assert.Equal(t, []string{"add-apt-repository -y --remove ppa:neovim-ppa/stable"}, runner.Commands())
}

func TestRollbackNamedRepository(t *testing.T) {
	runner := aptRunner()
	s := testSession(t, runner, nil)
	ctx := context.Background()

	out, entries := s.repository(ctx, history.OpAddRepo, "flatpak", "flathub https://flathub.org/repo/flathub.flatpakrepo")
	require.True(t, out.OK)
	require.Len(t, entries, 1)
	added := entries[0]
	require.True(t, added.CanRollback())
	assert.Equal(t, []string{"flathub"}, added.UndoTargets())

	out, entries = s.rollback(ctx, added)
	require.True(t, out.OK)
	require.Len(t, entries, 1)
	assert.Equal(t, "flatpak remote-delete flathub", runner.Commands()[len(runner.Commands())-1])
	assert.False(t, entries[0].CanRollback(), "a remote removed by name can't be re-added")
}

func TestRemovedRepositoryRollback(t *testing.T) {
	s := testSession(t, aptRunner(), nil)
	ctx := context.Background()

	_, entries := s.repository(ctx, history.OpRemoveRepo, "apt", "ppa:neovim-ppa/stable")
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CanRollback())

	_, entries = s.repository(ctx, history.OpRemoveRepo, "flatpak", "flathub")
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
	assert.False(t, entries[0].CanRollback())
}

func TestRollbackTargetByID(t *testing.T) {
	s := testSession(t, aptRunner(), nil)

	_, err := s.rollbackTarget(42, false)
	assert.Error(t, err)

	s.record([]*history.Entry{history.NewEntry(history.OpUpdate, "apt", []string{"vim"})})
	entry, err := s.rollbackTarget(1, false)
	require.NoError(t, err)
	assert.False(t, entry.CanRollback())
}

func TestInstallable(t *testing.T) {
	s := testSession(t, aptRunner(), func(c *config.Config) {
		c.General.AllowSelfInstall = true
	})

	m, err := s.installable("apt")
	require.NoError(t, err)
	assert.Nil(t, m, "usable backends need no install")

	_, err = s.installable("winget")
	assert.ErrorIs(t, err, ErrNotInstallable)

	_, err = s.installable("nope")
	assert.ErrorIs(t, err, manager.ErrUnknownBackend)
}

func TestReports(t *testing.T) {
	s := testSession(t, aptRunner(), nil)

	all := s.reports(false)
	assert.Len(t, all, len(catalog.Names()))

	usable := s.reports(true)
	var names []string
	for _, r := range usable {
		assert.Equal(t, catalog.StatusUsable, r.Status)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"apt", "flatpak"}, names)
}

func TestDiagnose(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := testSession(t, aptRunner(), nil)
		for _, f := range s.diagnose(true) {
			assert.NotEqual(t, sevIssue, f.sev, f.message)
		}
	})

	t.Run("nothing usable", func(t *testing.T) {
		s := testSession(t, managertest.NewRunner(), nil)
		var issues []string
		for _, f := range s.diagnose(true) {
			if f.sev == sevIssue {
				issues = append(issues, f.message)
			}
		}
		assert.Equal(t, []string{"No usable package manager found"}, issues)
	})

	t.Run("dropped filter", func(t *testing.T) {
		s := testSession(t, aptRunner(), func(c *config.Config) {
			c.General.Backends = []string{"apt", "winget"}
		})
		var warned bool
		for _, f := range s.diagnose(true) {
			if f.sev == sevWarn && f.message == `Configured backend "winget" is not usable here` {
				warned = true
			}
		}
		assert.True(t, warned)
	})
}
