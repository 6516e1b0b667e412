package manager

import "strings"

// RepositoryKeyer is implemented by backends whose RemoveRepository does not
// take the spec AddRepository was given, typically because repositories are
// added as "<name> <location>" and removed by name.
type RepositoryKeyer interface {
	// RepositoryKey returns the RemoveRepository argument for a repository
	// added with spec, and false when the addition can't be undone.
	RepositoryKey(spec string) (string, bool)
}

// UndoAddRepository returns the argument that makes m.RemoveRepository undo
// m.AddRepository(spec).
func UndoAddRepository(m Manager, spec string) (string, bool) {
	spec = strings.TrimSpace(spec)
	if k, ok := m.(RepositoryKeyer); ok {
		return k.RepositoryKey(spec)
	}
	return spec, spec != ""
}

// UndoRemoveRepository returns the argument that makes m.AddRepository undo
// m.RemoveRepository(key). Backends that remove by a shorter key than they
// add with can't restore the repository, so ok is false for them.
func UndoRemoveRepository(m Manager, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if _, ok := m.(RepositoryKeyer); ok {
		return "", false
	}
	return key, key != ""
}
