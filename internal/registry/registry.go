// Package registry builds the name→path map of waf projects that can be
// offered as local dependencies. Entries come from the user override file,
// the built-in defaults and a scan of sibling directories, in that priority.
package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Source records where a registry entry came from.
type Source int

const (
	SourceOverride Source = iota
	SourceDefault
	SourceSibling
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceDefault:
		return "default"
	case SourceSibling:
		return "sibling"
	default:
		return "unknown"
	}
}

// Entry is a single known project.
type Entry struct {
	Name   string
	Path   string
	Source Source
}

// defaultProjectDirs maps project name to directory name next to the
// current checkout.
var defaultProjectDirs = map[string]string{
	// Public repos
	"boost":        "boost",
	"cpuid":        "cpuid",
	"fifi":         "fifi",
	"gauge":        "gauge",
	"gtest":        "gtest",
	"kodo":         "kodo",
	"kodo-c":       "kodo-c",
	"kodo-core":    "kodo-core",
	"kodo-cpp":     "kodo-cpp",
	"kodo-fulcrum": "kodo-fulcrum",
	"kodo-java":    "kodo-java",
	"kodo-python":  "kodo-python",
	"kodo-rlnc":    "kodo-rlnc",
	"meta":         "meta",
	"platform":     "platform",
	"recycle":      "recycle",
	"sak":          "sak",
	"stub":         "stub",
	"tables":       "tables",
	"waf":          "waf",
	"waf-tools":    "waf-tools",
	// Private repos
	"beem":  "beem",
	"imp":   "imp",
	"kfifi": "fifi-kernel-module",
	"kkodo": "kodo-kernel-module",
	"norm":  "norm",
	"vroom": "vroom",
}

// Defaults returns the built-in project map rooted at projectPath (usually "../").
func Defaults(projectPath string) map[string]string {
	out := make(map[string]string, len(defaultProjectDirs))
	for name, dir := range defaultProjectDirs {
		out[name] = joinPrefix(projectPath, dir)
	}
	return out
}

// DefaultBundlePath is the suggested dependency bundle directory.
func DefaultBundlePath(projectPath string) string {
	return joinPrefix(projectPath, "deps")
}

// joinPrefix keeps the "../name" spelling instead of cleaning it to a
// platform path; these strings end up verbatim in waf flags.
func joinPrefix(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + name
}

// BuildOptions controls Build.
type BuildOptions struct {
	// Overrides come from the user override file and win every collision.
	Overrides map[string]string
	// Defaults is normally Defaults(projectPath).
	Defaults map[string]string
	// ScanDir is the directory whose subdirectories are added as siblings.
	// Empty disables the scan.
	ScanDir string
	// ScanPrefix is prepended to scanned directory names to form their path.
	ScanPrefix string
}

// Registry is the merged project map.
type Registry struct {
	entries map[string]Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Add inserts an entry unless the name is already known. It reports whether
// the entry was added.
func (r *Registry) Add(name, path string, src Source) bool {
	if name == "" {
		return false
	}
	if _, ok := r.entries[name]; ok {
		return false
	}
	r.entries[name] = Entry{Name: name, Path: path, Source: src}
	return true
}

// Build merges overrides, defaults and sibling directories. A failed scan
// still returns the registry built so far along with the error.
func Build(fs afero.Fs, opts BuildOptions) (*Registry, error) {
	r := New()
	for _, name := range sortedKeys(opts.Overrides) {
		r.Add(name, opts.Overrides[name], SourceOverride)
	}
	for _, name := range sortedKeys(opts.Defaults) {
		r.Add(name, opts.Defaults[name], SourceDefault)
	}

	if opts.ScanDir == "" {
		return r, nil
	}
	if err := r.scanSiblings(fs, opts.ScanDir, opts.ScanPrefix); err != nil {
		return r, err
	}
	return r, nil
}

func (r *Registry) scanSiblings(fs afero.Fs, dir, prefix string) error {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	for _, info := range infos {
		name := info.Name()
		if !info.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		r.Add(name, joinPrefix(prefix, name), SourceSibling)
	}
	return nil
}

// Lookup returns the entry for name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Path returns the path registered for name.
func (r *Registry) Path(name string) (string, bool) {
	e, ok := r.entries[name]
	return e.Path, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns all project names sorted lexicographically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns all entries sorted by name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, name := range r.Names() {
		out = append(out, r.entries[name])
	}
	return out
}

// Abs resolves a registry path against dir. Registry paths use forward
// slashes on every platform.
func Abs(dir, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// Rel returns p relative to dir, slash-separated. A path that cannot be
// made relative is returned unchanged.
func Rel(dir, p string) string {
	rel, err := filepath.Rel(dir, Abs(dir, p))
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// Exists reports whether p, resolved against dir, exists on fs.
func Exists(fs afero.Fs, dir, p string) bool {
	if p == "" {
		return false
	}
	_, err := fs.Stat(Abs(dir, p))
	return err == nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
