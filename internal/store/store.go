package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store loads and saves the declarations of one repository.
type Store interface {
	Load() (*Declarations, error)
	Save(d *Declarations) error
}

// Decode parses a declarations document. Empty input yields an empty document.
func Decode(data []byte) (*Declarations, error) {
	d := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return d, nil
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse declarations: %w", err)
	}
	d.normalize()
	return d, nil
}

// Encode renders a declarations document as YAML.
func Encode(d *Declarations) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode declarations: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode declarations: %w", err)
	}
	return buf.Bytes(), nil
}

// FileStore keeps declarations in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file; a missing file is an empty document.
func (s *FileStore) Load() (*Declarations, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read declarations: %w", err)
	}
	return Decode(data)
}

// Save writes the document through a temporary file renamed over the target.
func (s *FileStore) Save(d *Declarations) error {
	data, err := Encode(d)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create declarations directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".declarations-*.yml")
	if err != nil {
		return fmt.Errorf("failed to write declarations: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write declarations: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write declarations: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace declarations: %w", err)
	}
	return nil
}

// MemoryStore keeps the encoded document in memory. It goes through the same YAML
// encoding as FileStore so round-trip behavior matches.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStore creates a MemoryStore seeded with d, or empty when d is nil.
func NewMemoryStore(d *Declarations) *MemoryStore {
	s := &MemoryStore{}
	if d != nil {
		data, err := Encode(d)
		if err != nil {
			panic(err)
		}
		s.data = data
	}
	return s
}

// Load decodes a fresh copy of the stored document.
func (s *MemoryStore) Load() (*Declarations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Decode(s.data)
}

// Save replaces the stored document.
func (s *MemoryStore) Save(d *Declarations) error {
	data, err := Encode(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// Bytes returns the encoded document as last saved.
func (s *MemoryStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.data)
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
