package filesystem

// Entry describes one store entry. A folder carries no content.
type Entry struct {
	Path    Path
	Dir     bool
	Content string
}

// Name returns the last segment of the entry's path.
func (e Entry) Name() string {
	return e.Path.Base()
}

// IsDir reports whether the entry is a folder.
func (e Entry) IsDir() bool {
	return e.Dir
}

// WalkFunc is called for every entry visited by Walk. Returning an error stops the walk.
type WalkFunc func(e Entry) error

// FileSystem is the in-memory hierarchy the shell operates on.
// Every path argument is canonical; resolving user input is the caller's job.
type FileSystem interface {
	// Stat returns the entry stored at p.
	Stat(p Path) (Entry, error)

	// Mkdir creates a folder at p. It fails if p is already taken.
	Mkdir(p Path) error

	// Create creates a file at p holding content. It fails if p is already taken.
	Create(p Path, content string) error

	// ReadFile returns the content of the file at p.
	ReadFile(p Path) (string, error)

	// WriteFile replaces the content of the existing file at p.
	WriteFile(p Path, content string) error

	// Remove deletes the file at p.
	Remove(p Path) error

	// RemoveAll deletes the folder at p and everything beneath it,
	// returning the number of entries removed.
	RemoveAll(p Path) (int, error)

	// Rename moves the file at oldPath to newPath.
	Rename(oldPath, newPath Path) error

	// RenameDir moves the folder at oldPath, and everything beneath it, to newPath.
	RenameDir(oldPath, newPath Path) error

	// ReadDir lists the immediate children of the folder at p, sorted by name.
	ReadDir(p Path) ([]Entry, error)

	// Walk calls fn for every entry strictly beneath p, in path order.
	Walk(p Path, fn WalkFunc) error

	// Reset drops every entry except the root folder.
	Reset()
}
