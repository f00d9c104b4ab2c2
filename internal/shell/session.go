package shell

import (
	"github.com/stackvity/memsh/internal/filesystem"
)

// ParentName is the navigation argument that moves the cursor up one folder.
const ParentName = ".."

// Session is the state every command handler operates on: the store and the
// current-directory cursor into it.
type Session struct {
	FS  filesystem.FileSystem
	Cwd filesystem.Path
}

// NewSession returns a session over fs with the cursor at the root folder.
func NewSession(fs filesystem.FileSystem) *Session {
	return &Session{FS: fs, Cwd: filesystem.Root}
}

// Resolve turns a user-supplied name into a canonical path against the cursor.
func (s *Session) Resolve(name string) filesystem.Path {
	return filesystem.Resolve(s.Cwd, name)
}

// Enter moves the cursor into the folder called name. ".." moves up instead.
// The cursor is unchanged on error.
func (s *Session) Enter(name string) error {
	if name == ParentName {
		s.Up()
		return nil
	}
	p := s.Resolve(name)
	e, err := s.FS.Stat(p)
	if err != nil {
		return err
	}
	if !e.IsDir() {
		return &filesystem.PathError{Op: filesystem.OpChangeDir, Path: p, Err: filesystem.ErrWrongKind}
	}
	s.Cwd = p
	return nil
}

// Up moves the cursor to its parent folder. It reports false, leaving the
// cursor in place, when the cursor is already at the root.
func (s *Session) Up() bool {
	if s.Cwd.IsRoot() {
		return false
	}
	s.Cwd = s.Cwd.Parent()
	return true
}

// ToRoot resets the cursor to the root folder.
func (s *Session) ToRoot() {
	s.Cwd = filesystem.Root
}
