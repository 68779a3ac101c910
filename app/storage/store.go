package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store manages artifact bytes under a single backup root. Metadata rows
// record file_path values relative to Root so the root can move between
// deployments without rewriting history.
type Store struct {
	Root string
}

func New(root string) *Store {
	if root == "" {
		root = "backups"
	}
	return &Store{Root: root}
}

// EnsureDirs creates the backup root and its temp subdirectory. Both calls
// are idempotent.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := os.MkdirAll(s.TempDir(), 0o755); err != nil {
		return fmt.Errorf("create backup temp dir: %w", err)
	}
	return nil
}

func (s *Store) TempDir() string { return filepath.Join(s.Root, "tmp") }

// Abs resolves a stored relative path to an absolute-from-root path.
func (s *Store) Abs(rel string) string { return filepath.Join(s.Root, rel) }

// Rel converts a path inside the root back to its stored form.
func (s *Store) Rel(path string) (string, error) {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		return "", fmt.Errorf("relativize %q: %w", path, err)
	}
	return rel, nil
}

func (s *Store) Exists(rel string) bool {
	if rel == "" {
		return false
	}
	info, err := os.Stat(s.Abs(rel))
	return err == nil && !info.IsDir()
}

func (s *Store) Size(rel string) (int64, error) {
	info, err := os.Stat(s.Abs(rel))
	if err != nil {
		return 0, fmt.Errorf("stat artifact: %w", err)
	}
	return info.Size(), nil
}

func (s *Store) Remove(rel string) error {
	if err := os.Remove(s.Abs(rel)); err != nil {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}
