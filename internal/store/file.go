package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// FileStore keeps the configuration as a single JSON file. Writes go to a temp file
// in the same directory and are renamed over the target, so readers only ever see a
// complete document.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (*models.FilterConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

func (s *FileStore) Save(_ context.Context, cfg *models.FilterConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(cfg)
}

func (s *FileStore) Update(_ context.Context, fn MutateFunc) (*models.FilterConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.read()
	if err != nil {
		return nil, err
	}
	changed, err := fn(cfg)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.write(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (s *FileStore) Close() error { return nil }

// ensureDir creates the parent directory if needed. The file itself is only
// created by write.
func (s *FileStore) ensureDir() error {
	return os.MkdirAll(filepath.Dir(s.path), 0755)
}

func (s *FileStore) read() (*models.FilterConfiguration, error) {
	if err := s.ensureDir(); err != nil {
		return nil, persistErr("file", "mkdir", err)
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfiguration(), nil
	}
	if err != nil {
		return nil, persistErr("file", "read", err)
	}

	cfg, err := Decode(data)
	if err != nil {
		return nil, persistErr("file", "read", err)
	}
	return cfg, nil
}

func (s *FileStore) write(cfg *models.FilterConfiguration) error {
	data, err := Encode(cfg)
	if err != nil {
		return persistErr("file", "write", err)
	}
	if err := s.ensureDir(); err != nil {
		return persistErr("file", "mkdir", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return persistErr("file", "write", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return persistErr("file", "write", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return persistErr("file", "write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return persistErr("file", "write", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return persistErr("file", "write", fmt.Errorf("rename: %w", err))
	}
	return nil
}
