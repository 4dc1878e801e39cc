// Package installdir derives the installation directory from the path the
// program was invoked with.
//
// The directory is kept as a plain string prefix: it either ends with a path
// separator or is empty (meaning the current working directory). Joining a
// file name onto it is simple concatenation, so "C:\tools\" and "./bin/" both
// work regardless of the host the binary runs on.
package installdir

import (
	"os"
	"strings"
)

// separators lists every character accepted as a path separator.
// Both are scanned on every host so that paths handed over by Windows
// shells (backslash) and Unix shells (slash) resolve the same way.
const separators = `/\`

// Dir is an installation directory prefix.
type Dir string

// Resolve returns the directory portion of an invocation path, including the
// trailing separator. The rightmost separator of either kind wins. A path with
// no separator yields the empty Dir.
func Resolve(invocation string) Dir {
	idx := strings.LastIndexAny(invocation, separators)
	if idx < 0 {
		return ""
	}
	return Dir(invocation[:idx+1])
}

// FromEnv returns a Dir built from an explicit directory value, appending a
// separator when the value does not already end with one. An empty value
// returns ok=false.
func FromEnv(value string) (Dir, bool) {
	if value == "" {
		return "", false
	}
	if strings.ContainsAny(value[len(value)-1:], separators) {
		return Dir(value), true
	}
	return Dir(value + string(os.PathSeparator)), true
}

// Join concatenates name onto the directory. No separator is inserted.
func (d Dir) Join(name string) string {
	return string(d) + name
}

// IsCurrent reports whether d refers to the current working directory.
func (d Dir) IsCurrent() bool {
	return d == ""
}

// String returns the directory prefix, or "." for the current directory.
func (d Dir) String() string {
	if d.IsCurrent() {
		return "."
	}
	return string(d)
}
