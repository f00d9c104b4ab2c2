package filesystem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFileSystem implements FileSystem for tests in other packages.
// Every call is recorded through testify/mock, so expectations must be set
// with On(...) for each method the code under test reaches.
type MockFileSystem struct {
	mock.Mock
	mu         sync.Mutex
	writeCalls map[Path]int
}

// NewMockFileSystem returns a MockFileSystem with no expectations.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{writeCalls: make(map[Path]int)}
}

// AssertWriteCalled fails the test if WriteFile was never called for p.
func (m *MockFileSystem) AssertWriteCalled(t *testing.T, p Path) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Greater(t, m.writeCalls[p], 0, "WriteFile was not called for %s", p)
}

// AssertWriteNotCalled fails the test if WriteFile was called for p.
func (m *MockFileSystem) AssertWriteNotCalled(t *testing.T, p Path) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, 0, m.writeCalls[p], "WriteFile should not have been called for %s", p)
}

// Stat records the call and returns the configured entry.
func (m *MockFileSystem) Stat(p Path) (Entry, error) {
	args := m.Called(p)
	e, _ := args.Get(0).(Entry)
	return e, args.Error(1)
}

// Mkdir records the call.
func (m *MockFileSystem) Mkdir(p Path) error {
	return m.Called(p).Error(0)
}

// Create records the call.
func (m *MockFileSystem) Create(p Path, content string) error {
	return m.Called(p, content).Error(0)
}

// ReadFile records the call and returns the configured content.
func (m *MockFileSystem) ReadFile(p Path) (string, error) {
	args := m.Called(p)
	return args.String(0), args.Error(1)
}

// WriteFile records and counts the call.
func (m *MockFileSystem) WriteFile(p Path, content string) error {
	m.mu.Lock()
	m.writeCalls[p]++
	m.mu.Unlock()
	return m.Called(p, content).Error(0)
}

// Remove records the call.
func (m *MockFileSystem) Remove(p Path) error {
	return m.Called(p).Error(0)
}

// RemoveAll records the call and returns the configured count.
func (m *MockFileSystem) RemoveAll(p Path) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

// Rename records the call.
func (m *MockFileSystem) Rename(oldPath, newPath Path) error {
	return m.Called(oldPath, newPath).Error(0)
}

// RenameDir records the call.
func (m *MockFileSystem) RenameDir(oldPath, newPath Path) error {
	return m.Called(oldPath, newPath).Error(0)
}

// ReadDir records the call and returns the configured entries.
func (m *MockFileSystem) ReadDir(p Path) ([]Entry, error) {
	args := m.Called(p)
	entries, _ := args.Get(0).([]Entry)
	return entries, args.Error(1)
}

// Walk records the call and feeds the configured entries to fn.
func (m *MockFileSystem) Walk(p Path, fn WalkFunc) error {
	args := m.Called(p)
	entries, _ := args.Get(0).([]Entry)
	for _, e := range entries {
		if err := fn(e); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// Reset records the call.
func (m *MockFileSystem) Reset() {
	m.Called()
}

var _ FileSystem = (*MockFileSystem)(nil)
