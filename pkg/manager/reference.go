package manager

import "strings"

// Reference is a package identifier, optionally qualified with the
// package manager that should handle it: "brew:wget" or "wget".
//
// Only the first colon separates the manager id from the package name,
// so "brew:foo:bar" refers to package "foo:bar" in brew.
type Reference struct {
	raw       string
	managerID string
	qualified bool
}

// ParseReference parses raw into a Reference. Any string is a valid reference.
func ParseReference(raw string) Reference {
	ref := Reference{raw: raw}
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		ref.managerID = raw[:i]
		ref.qualified = true
	}
	return ref
}

// ParseReferences parses each raw string in order.
func ParseReferences(raws []string) []Reference {
	refs := make([]Reference, len(raws))
	for i, raw := range raws {
		refs[i] = ParseReference(raw)
	}
	return refs
}

// ManagerID returns the manager id and whether the reference carried one.
// A reference such as ":foo" has an empty but present manager id.
func (r Reference) ManagerID() (string, bool) {
	return r.managerID, r.qualified
}

// PackageName returns the reference without its "manager:" prefix.
func (r Reference) PackageName() string {
	if !r.qualified {
		return r.raw
	}
	return r.raw[len(r.managerID)+1:]
}

// String returns the reference exactly as it was parsed.
func (r Reference) String() string {
	return r.raw
}

// AcceptsAlias reports whether a backend known by aliases should handle ref.
// Unqualified references are accepted by every backend.
func AcceptsAlias(aliases []string, ref Reference) bool {
	id, ok := ref.ManagerID()
	if !ok {
		return true
	}
	for _, alias := range aliases {
		if strings.EqualFold(alias, id) {
			return true
		}
	}
	return false
}
