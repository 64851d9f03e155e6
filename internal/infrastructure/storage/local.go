// Package storage provides file persistence for uploaded enrollment
// documents.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploaded files to a directory on disk.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns a store
// over it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage: upload directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the content under the given name and returns the full path.
// Path separators in the name are rejected, the caller controls naming.
func (s *LocalStore) Save(_ context.Context, name string, content []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("storage: invalid file name %q", name)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return path, nil
}

// Dir returns the upload directory.
func (s *LocalStore) Dir() string { return s.dir }
