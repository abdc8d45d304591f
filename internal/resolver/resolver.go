// Package resolver matches declared dependency names against the project
// registry and turns menu picks (including the None/ALL sentinels) into the
// final dependency selection.
package resolver

import (
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/steinwurf/wafconf/internal/registry"
)

// Menu sentinels
const (
	None = "None"
	All  = "ALL"
)

// Resolver computes dependency candidates for one working directory.
type Resolver struct {
	fs  afero.Fs
	reg *registry.Registry
	cwd string
}

// New creates a resolver. cwd must be absolute.
func New(fs afero.Fs, reg *registry.Registry, cwd string) *Resolver {
	return &Resolver{fs: fs, reg: reg, cwd: filepath.Clean(cwd)}
}

// Candidates returns the sorted, duplicate-free names that can be offered.
// With declared deps: every declared name that is registered and exists on
// disk. Without: every registered project that exists and is not the
// working directory itself.
func (r *Resolver) Candidates(deps []string, declared bool) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	if declared {
		for _, name := range deps {
			p, ok := r.reg.Path(name)
			if ok && registry.Exists(r.fs, r.cwd, p) {
				add(name)
			}
		}
	} else {
		for _, e := range r.reg.Entries() {
			if !registry.Exists(r.fs, r.cwd, e.Path) {
				continue
			}
			if registry.Abs(r.cwd, e.Path) == r.cwd {
				continue
			}
			add(e.Name)
		}
	}

	sort.Strings(out)
	return out
}

// RelPath returns the registry path of name relative to the working
// directory, or "" for unknown names.
func (r *Resolver) RelPath(name string) string {
	p, ok := r.reg.Path(name)
	if !ok {
		return ""
	}
	return registry.Rel(r.cwd, p)
}

// Menu returns the dependency menu for candidates: None first, ALL when the
// dependencies were declared, then the candidates. Empty when there is
// nothing to choose.
func Menu(candidates []string, declared bool) []string {
	if len(candidates) == 0 {
		return nil
	}
	menu := []string{None}
	if declared {
		menu = append(menu, All)
	}
	return append(menu, candidates...)
}

// Selection is the outcome of the dependency menu.
type Selection struct {
	Names []string
	// All is set when the ALL sentinel was picked; the bundle path is then
	// not needed.
	All bool
}

// Select applies menu picks to candidates. ALL wins over None; ALL with
// declared deps selects their intersection with the candidates. Plain picks
// that are not candidates are ignored.
func Select(candidates, picks, deps []string, declared bool) Selection {
	if contains(picks, All) {
		if !declared {
			return Selection{Names: append([]string(nil), candidates...), All: true}
		}
		var names []string
		for _, c := range candidates {
			if contains(deps, c) {
				names = append(names, c)
			}
		}
		return Selection{Names: names, All: true}
	}
	if contains(picks, None) {
		return Selection{}
	}

	var names []string
	for _, c := range candidates {
		if contains(picks, c) {
			names = append(names, c)
		}
	}
	return Selection{Names: names}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
