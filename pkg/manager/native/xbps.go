package native

import (
	"context"

	"pwpm/pkg/manager"
)

// XBPS implements the Manager interface for Void Linux's XBPS package manager.
type XBPS struct {
	*BaseManager
}

// NewXBPS creates a new XBPS manager instance.
func NewXBPS(env manager.Env) *XBPS {
	return &XBPS{
		BaseManager: NewBaseManager("xbps", nil, manager.Capability{
			DisplayName:   "XBPS (Void Linux)",
			Category:      manager.CategoryOS,
			Platforms:     []manager.Platform{manager.PlatformLinux},
			RequiresAdmin: true,
			Requires: []manager.CommandGroup{
				manager.Cmd("xbps-install"),
				manager.Cmd("xbps-query"),
				manager.Cmd("xbps-remove"),
			},
		}, env),
	}
}

func (x *XBPS) IsInstalled(ctx context.Context, ref manager.Reference) (bool, error) {
	return x.Probe(ctx, "xbps-query "+pkg(ref))
}

func (x *XBPS) Install(ctx context.Context, ref manager.Reference) error {
	return x.run(ctx, "xbps-install -Sy "+pkg(ref))
}

func (x *XBPS) Update(ctx context.Context, ref manager.Reference) error {
	return x.run(ctx, "xbps-install -Suy "+pkg(ref))
}

func (x *XBPS) Uninstall(ctx context.Context, ref manager.Reference) error {
	return x.run(ctx, "xbps-remove -y "+pkg(ref))
}

func (x *XBPS) UpdateDatabase(ctx context.Context) error {
	return x.run(ctx, "xbps-install -S")
}

// UpdateAll upgrades the system and removes orphaned packages.
func (x *XBPS) UpdateAll(ctx context.Context) error {
	return x.runAll(ctx,
		"xbps-install -Suy",
		"xbps-remove -oy",
	)
}
