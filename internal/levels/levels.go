// Package levels defines logging level method names and the set of levels
// the checker reports on.
package levels

import (
	"slices"
	"strings"
)

// Name is a canonical logging level method name.
type Name string

// Recognized level names.
const (
	Debug     Name = "debug"
	Info      Name = "info"
	Warning   Name = "warning"
	Error     Name = "error"
	Critical  Name = "critical"
	Exception Name = "exception"
)

var known = map[Name]bool{
	Debug:     true,
	Info:      true,
	Warning:   true,
	Error:     true,
	Critical:  true,
	Exception: true,
}

// aliases maps deprecated method names to their canonical level.
var aliases = map[string]Name{
	"warn":  Warning,
	"fatal": Critical,
}

// Canonical resolves a method name to its canonical level.
// It returns false when method is not a level method.
func Canonical(method string) (Name, bool) {
	if name, ok := aliases[method]; ok {
		return name, true
	}
	name := Name(method)
	return name, known[name]
}

// Exempt reports whether the level already captures the active exception.
// logger.exception() always attaches exc_info.
func Exempt(name Name) bool {
	return name == Exception
}

// Set is the set of levels reported on.
type Set map[Name]struct{}

// Default returns the built-in set: every level except debug and exception.
func Default() Set {
	return NewSet(Info, Warning, Error, Critical)
}

// NewSet builds a Set from names.
func NewSet(names ...Name) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Parse parses a comma-separated list of level names. Names are kept
// verbatim, so unknown or alias names are accepted but never match.
// An empty list yields an empty set.
func Parse(list string) Set {
	var names []Name
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		names = append(names, Name(part))
	}
	return NewSet(names...)
}

// Flag is a flag.Value holding a configured level list. An unset Flag
// selects the default set; a Flag set to "" selects the empty set.
type Flag struct {
	list string
	set  bool
}

func (f *Flag) String() string {
	if f == nil {
		return ""
	}
	return f.list
}

// Set records list as the configured levels.
func (f *Flag) Set(list string) error {
	f.list, f.set = list, true
	return nil
}

// Reset returns f to the unset state.
func (f *Flag) Reset() {
	*f = Flag{}
}

// IsSet reports whether a list was configured since the last Reset.
func (f *Flag) IsSet() bool {
	return f.set
}

// Levels returns the configured set, or the default set when f is unset.
func (f *Flag) Levels() Set {
	if !f.set {
		return Default()
	}
	return Parse(f.list)
}

// Reports reports whether name should be evaluated. Exempt levels are
// never reported, whatever the configuration says.
func (s Set) Reports(name Name) bool {
	if Exempt(name) {
		return false
	}
	_, ok := s[name]
	return ok
}

// Names returns the set members in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, string(n))
	}
	slices.Sort(names)
	return names
}

func (s Set) String() string {
	return strings.Join(s.Names(), ",")
}
