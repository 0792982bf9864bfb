package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pagescope/pkg/utils"
)

// Store persists tool artifacts (screenshots, dumps) to disk. It supports
// two modes: saving to an explicit caller-specified path, and saving to a
// generated filename under a managed artifact directory.
type Store struct {
	mu  sync.Mutex
	dir string // resolved artifact directory, created lazily
}

// New creates a Store. dir is the directory used for generated filenames;
// when empty, a per-process temporary directory is created on first use.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// SaveTo writes data to the given absolute or CWD-relative path, creating
// parent directories as needed, and returns the absolute filename.
func (s *Store) SaveTo(path string, data []byte) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	if dir := filepath.Dir(abs); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory for %q: %w", abs, err)
		}
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", abs, err)
	}
	return abs, nil
}

// SaveTemp writes data to a generated filename under the artifact directory
// and returns the absolute filename. The extension is derived from mimeType;
// when mimeType is empty the content is sniffed instead.
func (s *Store) SaveTemp(prefix string, data []byte, mimeType string) (string, error) {
	dir, err := s.artifactDir()
	if err != nil {
		return "", err
	}
	if mimeType == "" {
		mimeType = utils.DetectMime(data)
	}
	name := prefix + "_" + utils.GenerateTimestampPrefix() + utils.GenerateID() + utils.ExtensionForMime(mimeType)
	return s.SaveTo(filepath.Join(dir, name), data)
}

// artifactDir returns the directory for generated files, creating it on
// first use so a Store is cheap to construct.
func (s *Store) artifactDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create artifact dir %q: %w", s.dir, err)
		}
		return s.dir, nil
	}

	dir, err := os.MkdirTemp("", "pagescope-")
	if err != nil {
		return "", fmt.Errorf("failed to create artifact dir: %w", err)
	}
	s.dir = dir
	return dir, nil
}
