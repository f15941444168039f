// Package reportstore persists report and prompt documents as Markdown
// files, either on the local filesystem or in S3-compatible object storage.
package reportstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes documents into a directory on disk.
type LocalStore struct {
	dir string
}

// NewLocalStore constructs the store, creating the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the document and returns its path. name must be a bare file
// name; anything path-like is rejected so callers cannot escape the
// directory.
func (s *LocalStore) Save(_ context.Context, name string, content []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return path, nil
}
