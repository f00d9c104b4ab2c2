package filesystem

import (
	"strings"
)

// Root is the canonical path of the root folder.
const Root Path = "root"

// Separator joins path segments.
const Separator = "/"

// Path is a canonical path: either Root or "root/<segment>(/<segment>)*".
// Two paths are equal iff their string forms are equal.
type Path string

// Resolve turns a user-supplied name into a canonical path relative to cursor.
// A name that already starts at the root marker is returned unchanged; anything
// else is appended to the cursor. No existence or segment check is done here.
func Resolve(cursor Path, name string) Path {
	if IsAbsolute(name) {
		return Path(name)
	}
	return Path(strings.TrimRight(string(cursor), Separator) + Separator + name)
}

// IsAbsolute reports whether name is rooted at the root marker.
func IsAbsolute(name string) bool {
	return name == string(Root) || strings.HasPrefix(name, string(Root)+Separator)
}

// String returns the path as a string.
func (p Path) String() string {
	return string(p)
}

// IsRoot reports whether p is the root folder.
func (p Path) IsRoot() bool {
	return p == Root
}

// Segments splits p on the separator, the root marker included.
func (p Path) Segments() []string {
	return strings.Split(string(p), Separator)
}

// Parent returns p with its last segment removed, clamped at Root.
func (p Path) Parent() Path {
	idx := strings.LastIndex(string(p), Separator)
	if idx <= 0 {
		return Root
	}
	return p[:idx]
}

// Base returns the last segment of p.
func (p Path) Base() string {
	idx := strings.LastIndex(string(p), Separator)
	return string(p[idx+1:])
}

// Within reports whether p equals ancestor or lies beneath it.
// The comparison is segment-aware: "root/ab" is not within "root/a".
func (p Path) Within(ancestor Path) bool {
	if p == ancestor {
		return true
	}
	return strings.HasPrefix(string(p), string(ancestor)+Separator)
}

// Rel returns the part of p below ancestor, without a leading separator.
// It returns "" when p is not strictly beneath ancestor.
func (p Path) Rel(ancestor Path) string {
	if p == ancestor || !p.Within(ancestor) {
		return ""
	}
	return string(p[len(ancestor)+len(Separator):])
}

// Rebase replaces the oldPrefix portion of p with newPrefix.
// p must be within oldPrefix.
func (p Path) Rebase(oldPrefix, newPrefix Path) Path {
	if p == oldPrefix {
		return newPrefix
	}
	return newPrefix + Path(Separator) + Path(p.Rel(oldPrefix))
}

// Validate checks that p is a well-formed canonical path.
func (p Path) Validate() error {
	segs := p.Segments()
	if segs[0] != string(Root) {
		return ErrInvalidPath
	}
	for _, seg := range segs[1:] {
		if seg == "" || seg == "." || seg == ".." {
			return ErrInvalidPath
		}
		if strings.ContainsAny(seg, " \t\r\n") {
			return ErrInvalidPath
		}
	}
	return nil
}
