package filesystem

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the path has no entry in the store.
	ErrNotFound = errors.New("path not found")

	// ErrAlreadyExists indicates the path is already taken.
	ErrAlreadyExists = errors.New("path already exists")

	// ErrWrongKind indicates a file was found where a folder was expected, or the reverse.
	ErrWrongKind = errors.New("wrong entry kind")

	// ErrInvalidPath indicates a path that is not canonical or cannot be the target of the operation.
	ErrInvalidPath = errors.New("invalid path")

	// ErrParentNotFound indicates the parent folder of a new entry is missing.
	ErrParentNotFound = fmt.Errorf("parent folder: %w", ErrNotFound)
)

// Operation names used in PathError.
const (
	OpStat      = "stat"
	OpMkdir     = "mkdir"
	OpCreate    = "create"
	OpRead      = "read"
	OpWrite     = "write"
	OpRemove    = "remove"
	OpRemoveAll = "removeall"
	OpRename    = "rename"
	OpRenameDir = "renamedir"
	OpList      = "list"
	OpChangeDir = "chdir"
)

// PathError records the operation and path that caused a store error.
type PathError struct {
	Op   string
	Path Path
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap lets errors.Is match the underlying kind.
func (e *PathError) Unwrap() error {
	return e.Err
}

func newPathError(op string, p Path, err error) *PathError {
	return &PathError{Op: op, Path: p, Err: err}
}
