package check

import (
	"slices"
	"strings"
)

// GDScriptSuffix is the only extension that is passed to the external tools.
const GDScriptSuffix = ".gd"

// ExtensionSeparator delimits the segments of an entry name.
const ExtensionSeparator = "."

// Entry is a single item returned by listing a directory.
type Entry struct {
	Name   string
	IsFile bool // true only for regular files (symlinks are followed)
}

// ExtensionTokenCount returns the number of '.'-delimited segments in the entry name.
// A name with no '.' has a count of 1.
func (e Entry) ExtensionTokenCount() int {
	return strings.Count(e.Name, ExtensionSeparator) + 1
}

// HasExtension reports whether the entry name contains at least one '.'.
func (e Entry) HasExtension() bool {
	return e.ExtensionTokenCount() > 1
}

// IsGDScript reports whether the entry name ends with .gd.
func (e Entry) IsGDScript() bool {
	return strings.HasSuffix(e.Name, GDScriptSuffix)
}

// IgnoreSet is a set of literal entry names which are never checked.
type IgnoreSet map[string]struct{}

// NewIgnoreSet creates an IgnoreSet holding the given names.
func NewIgnoreSet(names ...string) IgnoreSet {
	s := make(IgnoreSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s IgnoreSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the names in the set, sorted.
func (s IgnoreSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Policy decides which directory entries are handed to an external tool.
type Policy struct {
	Ignore IgnoreSet

	// SkipExtensionlessFiles excludes regular files with no '.' in their name.
	// Extensionless directories are always included.
	SkipExtensionlessFiles bool
}

// Include reports whether the entry passes the inclusion filter:
//   - names in the ignore set are excluded
//   - extensionless regular files are excluded when SkipExtensionlessFiles is set
//   - names containing a '.' which do not end in .gd are excluded
//
// Everything else (extensionless directories and .gd entries) is included.
func (p Policy) Include(e Entry) bool {
	if p.Ignore.Contains(e.Name) {
		return false
	}

	if p.SkipExtensionlessFiles && e.IsFile && !e.HasExtension() {
		return false
	}

	if e.HasExtension() && !e.IsGDScript() {
		return false
	}

	return true
}

// Select returns the entries which pass the inclusion filter, preserving their order.
func (p Policy) Select(entries []Entry) []Entry {
	selected := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if p.Include(e) {
			selected = append(selected, e)
		}
	}
	return selected
}

// Lister enumerates the entries of a directory in a stable order.
type Lister interface {
	List(dir string) ([]Entry, error)
}

// ListerFunc adapts a plain function to the Lister interface.
type ListerFunc func(dir string) ([]Entry, error)

// List calls f(dir).
func (f ListerFunc) List(dir string) ([]Entry, error) {
	return f(dir)
}
