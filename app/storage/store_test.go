package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirsIdempotent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "backups"))
	if err := s.EnsureDirs(); err != nil {
		t.Fatalf("first EnsureDirs: %v", err)
	}
	if err := s.EnsureDirs(); err != nil {
		t.Fatalf("second EnsureDirs: %v", err)
	}
	if _, err := os.Stat(s.TempDir()); err != nil {
		t.Errorf("temp dir missing: %v", err)
	}
}

func TestExistsSizeRemove(t *testing.T) {
	s := New(t.TempDir())
	if err := s.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	if s.Exists("nope.sql") {
		t.Error("Exists = true for missing artifact")
	}
	if s.Exists("") {
		t.Error("Exists = true for empty path")
	}

	if err := os.WriteFile(s.Abs("a.sql"), []byte("12345"), 0o600); err != nil {
		t.Fatal(err)
	}
	if !s.Exists("a.sql") {
		t.Error("Exists = false for present artifact")
	}
	size, err := s.Size("a.sql")
	if err != nil || size != 5 {
		t.Errorf("Size = %d, %v; want 5, nil", size, err)
	}
	if err := s.Remove("a.sql"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Exists("a.sql") {
		t.Error("artifact still exists after Remove")
	}
}

func TestRelRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	abs := s.Abs(filepath.Join("sub", "b.sql.gz"))
	rel, err := s.Rel(abs)
	if err != nil {
		t.Fatal(err)
	}
	if rel != filepath.Join("sub", "b.sql.gz") {
		t.Errorf("Rel = %q", rel)
	}
}
