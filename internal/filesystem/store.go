package filesystem

import (
	"log/slog"
	"sort"
	"strings"
)

// payload is nil for a folder and points at the text for a file.
type payload *string

// Store implements FileSystem as a flat map from canonical path to payload.
// Hierarchy is emulated by segment-aware prefix tests over the keys.
// A Store is owned by a single session and is not safe for concurrent use.
type Store struct {
	entries       map[Path]payload
	strictParents bool
	logger        *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithStrictParents makes Mkdir, Create and the rename operations require
// an existing parent folder. Without it, orphaned entries are tolerated.
func WithStrictParents(strict bool) Option {
	return func(s *Store) {
		s.strictParents = strict
	}
}

// NewStore returns a store holding only the root folder.
func NewStore(logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		entries:       map[Path]payload{Root: nil},
		strictParents: true,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ FileSystem = (*Store)(nil)

// Stat implements FileSystem.
func (s *Store) Stat(p Path) (Entry, error) {
	pl, ok := s.entries[p]
	if !ok {
		return Entry{}, newPathError(OpStat, p, ErrNotFound)
	}
	return toEntry(p, pl), nil
}

// Mkdir implements FileSystem.
func (s *Store) Mkdir(p Path) error {
	if err := s.checkCreate(OpMkdir, p); err != nil {
		return err
	}
	s.entries[p] = nil
	s.logger.Debug("Folder created", "path", p)
	return nil
}

// Create implements FileSystem.
func (s *Store) Create(p Path, content string) error {
	if err := s.checkCreate(OpCreate, p); err != nil {
		return err
	}
	s.entries[p] = &content
	s.logger.Debug("File created", "path", p, "bytes", len(content))
	return nil
}

// ReadFile implements FileSystem.
func (s *Store) ReadFile(p Path) (string, error) {
	pl, err := s.file(OpRead, p)
	if err != nil {
		return "", err
	}
	return *pl, nil
}

// WriteFile implements FileSystem.
func (s *Store) WriteFile(p Path, content string) error {
	if _, err := s.file(OpWrite, p); err != nil {
		return err
	}
	s.entries[p] = &content
	s.logger.Debug("File written", "path", p, "bytes", len(content))
	return nil
}

// Remove implements FileSystem.
func (s *Store) Remove(p Path) error {
	if _, err := s.file(OpRemove, p); err != nil {
		return err
	}
	delete(s.entries, p)
	s.logger.Debug("File removed", "path", p)
	return nil
}

// RemoveAll implements FileSystem.
func (s *Store) RemoveAll(p Path) (int, error) {
	if p.IsRoot() {
		return 0, newPathError(OpRemoveAll, p, ErrInvalidPath)
	}
	if err := s.dir(OpRemoveAll, p); err != nil {
		return 0, err
	}
	doomed := s.keysWithin(p)
	for _, k := range doomed {
		delete(s.entries, k)
	}
	s.logger.Debug("Folder removed", "path", p, "entries", len(doomed))
	return len(doomed), nil
}

// Rename implements FileSystem.
func (s *Store) Rename(oldPath, newPath Path) error {
	pl, err := s.file(OpRename, oldPath)
	if err != nil {
		return err
	}
	if err := s.checkCreate(OpRename, newPath); err != nil {
		return err
	}
	s.entries[newPath] = pl
	delete(s.entries, oldPath)
	s.logger.Debug("File renamed", "from", oldPath, "to", newPath)
	return nil
}

// RenameDir implements FileSystem.
func (s *Store) RenameDir(oldPath, newPath Path) error {
	if oldPath.IsRoot() {
		return newPathError(OpRenameDir, oldPath, ErrInvalidPath)
	}
	if err := s.dir(OpRenameDir, oldPath); err != nil {
		return err
	}
	if err := s.checkCreate(OpRenameDir, newPath); err != nil {
		return err
	}
	if newPath.Within(oldPath) {
		return newPathError(OpRenameDir, newPath, ErrInvalidPath)
	}

	moved := make(map[Path]payload)
	for _, k := range s.keysWithin(oldPath) {
		moved[k.Rebase(oldPath, newPath)] = s.entries[k]
		delete(s.entries, k)
	}
	for k, pl := range moved {
		s.entries[k] = pl
	}
	s.logger.Debug("Folder renamed", "from", oldPath, "to", newPath, "entries", len(moved))
	return nil
}

// ReadDir implements FileSystem. It never fails for a missing folder so that
// listing a cursor left behind by permissive operations still succeeds.
func (s *Store) ReadDir(p Path) ([]Entry, error) {
	if pl, ok := s.entries[p]; ok && pl != nil {
		return nil, newPathError(OpList, p, ErrWrongKind)
	}
	var out []Entry
	for k, pl := range s.entries {
		if k == p || !k.Within(p) {
			continue
		}
		if rel := k.Rel(p); !strings.Contains(rel, Separator) {
			out = append(out, toEntry(k, pl))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Walk implements FileSystem.
func (s *Store) Walk(p Path, fn WalkFunc) error {
	for _, k := range s.keysWithin(p) {
		if k == p {
			continue
		}
		if err := fn(toEntry(k, s.entries[k])); err != nil {
			return err
		}
	}
	return nil
}

// Reset implements FileSystem.
func (s *Store) Reset() {
	s.entries = map[Path]payload{Root: nil}
	s.logger.Debug("Store reset")
}

// Len returns the number of entries, the root folder included.
func (s *Store) Len() int {
	return len(s.entries)
}

// keysWithin returns, sorted, every key equal to or beneath p.
func (s *Store) keysWithin(p Path) []Path {
	var keys []Path
	for k := range s.entries {
		if k.Within(p) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s *Store) checkCreate(op string, p Path) error {
	if err := p.Validate(); err != nil || p.IsRoot() {
		return newPathError(op, p, ErrInvalidPath)
	}
	if _, ok := s.entries[p]; ok {
		return newPathError(op, p, ErrAlreadyExists)
	}
	if s.strictParents {
		parent := p.Parent()
		if pl, ok := s.entries[parent]; !ok || pl != nil {
			return newPathError(op, parent, ErrParentNotFound)
		}
	}
	return nil
}

func (s *Store) file(op string, p Path) (payload, error) {
	pl, ok := s.entries[p]
	if !ok {
		return nil, newPathError(op, p, ErrNotFound)
	}
	if pl == nil {
		return nil, newPathError(op, p, ErrWrongKind)
	}
	return pl, nil
}

func (s *Store) dir(op string, p Path) error {
	pl, ok := s.entries[p]
	if !ok {
		return newPathError(op, p, ErrNotFound)
	}
	if pl != nil {
		return newPathError(op, p, ErrWrongKind)
	}
	return nil
}

func toEntry(p Path, pl payload) Entry {
	if pl == nil {
		return Entry{Path: p, Dir: true}
	}
	return Entry{Path: p, Content: *pl}
}
