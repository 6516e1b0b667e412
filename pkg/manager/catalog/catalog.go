// Package catalog assembles the full, ordered set of package manager backends.
package catalog

import (
	"pwpm/pkg/manager"
	"pwpm/pkg/manager/native"
	"pwpm/pkg/manager/universal"
)

// Options carries the per-backend settings taken from configuration.
type Options struct {
	UseNala                     bool
	FlatpakRemote               string
	SnapAllowClassic            bool
	ChocolateyEnhancedExitCodes bool
}

// DefaultOptions returns the settings used when configuration is silent.
func DefaultOptions() Options {
	return Options{
		UseNala:                     true,
		FlatpakRemote:               universal.DefaultFlatpakRemote,
		ChocolateyEnhancedExitCodes: true,
	}
}

// All returns one instance of every backend, in catalogue order. The order
// is the dispatch order when no priority is configured.
func All(env manager.Env, opts Options) []manager.Manager {
	apt := native.NewAPT(env, opts.UseNala)
	yum := native.NewYUM(env)
	dnf := native.NewDNF(env)
	pacman := native.NewPacman(env)
	apk := native.NewAPK(env)
	brew := native.NewBrew(env)

	return []manager.Manager{
		apt,
		yum,
		dnf,
		pacman,
		native.NewPacstall(env),
		apk,
		native.NewZypper(env),
		native.NewXBPS(env),
		native.NewEmerge(env),
		native.NewEopkg(env),
		native.NewSlackpkg(env),
		native.NewSwupd(env),
		native.NewNix(env),
		universal.NewFlatpak(env, opts.FlatpakRemote, apt, dnf, yum, pacman, apk),
		universal.NewSnap(env, opts.SnapAllowClassic, pacman, apt, dnf, yum),
		brew,
		native.NewBrewCask(env),
		native.NewMas(env, brew),
		native.NewWinget(env),
		native.NewChocolatey(env, opts.ChocolateyEnhancedExitCodes),
		native.NewScoop(env),
	}
}

// Names returns the backend names in catalogue order.
func Names() []string {
	all := All(manager.Env{}, DefaultOptions())
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name()
	}
	return names
}
