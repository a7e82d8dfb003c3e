package mocks

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/user/recstream/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	MkdirAllFunc func(path string) error
	ExistsFunc   func(path string) (bool, error)
	SizeFunc     func(path string) (int64, error)
	RemoveFunc   func(path string) error
	ReadDirFunc  func(path string) ([]string, error)
	ReadFileFunc func(path string) ([]byte, error)
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// PutFile stores a file (for test setup).
func (m *FileSystem) PutFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

func (m *FileSystem) MkdirAll(path string) error {
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; ok {
		return true, nil
	}
	return m.dirs[path], nil
}

func (m *FileSystem) Size(path string) (int64, error) {
	if m.SizeFunc != nil {
		return m.SizeFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return int64(len(data)), nil
	}
	return 0, fmt.Errorf("file not found: %s", path)
}

func (m *FileSystem) Remove(path string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	delete(m.dirs, path)
	return nil
}

func (m *FileSystem) ReadDir(path string) ([]string, error) {
	if m.ReadDirFunc != nil {
		return m.ReadDirFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := filepath.Clean(path) + string(filepath.Separator)
	var names []string
	for p := range m.files {
		if strings.HasPrefix(p, prefix) && !strings.ContainsRune(p[len(prefix):], filepath.Separator) {
			names = append(names, p)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// Dirs returns every directory created through MkdirAll (for test verification).
func (m *FileSystem) Dirs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for d := range m.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

var _ ports.FileSystem = (*FileSystem)(nil)
