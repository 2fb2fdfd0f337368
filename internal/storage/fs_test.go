package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempBoard(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempBoard(t)
	content := []byte("---\nid: card\n---\nbody\n")
	if err := s.Write("card.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("card.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempBoard(t)
	if err := s.Write("tracks/labs/na.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := s.Read("tracks/labs/na.md"); err != nil {
		t.Fatalf("Read: %v", err)
	}
}

func TestReadMissingWrapsNotExist(t *testing.T) {
	s := tempBoard(t)
	_, err := s.Read("missing.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestDelete(t *testing.T) {
	s := tempBoard(t)
	_ = s.Write("del.md", []byte("bye"))
	if err := s.Delete("del.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.md"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestListSkipsNonCards(t *testing.T) {
	s := tempBoard(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("sub/b.md", []byte("b"))
	_ = s.Write("readme.txt", []byte("not a card"))
	_ = os.WriteFile(filepath.Join(s.Root(), ".hidden.md"), []byte("x"), 0o644)

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	paths := map[string]bool{}
	for _, it := range items {
		paths[it.Path] = true
		if it.Checksum == "" {
			t.Errorf("%s has no checksum", it.Path)
		}
	}
	if !paths["a.md"] || !paths["sub/b.md"] {
		t.Errorf("paths = %v", paths)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempBoard(t)
	for _, p := range []string{"../../etc/passwd", "../outside.md", "/etc/shadow"} {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteLeavesNoTemp(t *testing.T) {
	s := tempBoard(t)
	_ = s.Write("atomic.md", []byte("original"))
	if err := s.Write("atomic.md", []byte("updated")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".board-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_Errors(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent dir")
	}
	f, _ := os.CreateTemp(t.TempDir(), "board-test-*")
	_ = f.Close()
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestCardHelpers(t *testing.T) {
	if CardPath("abc") != "abc.md" {
		t.Errorf("CardPath = %q", CardPath("abc"))
	}
	if !IsCardFile("dir/x.md") || IsCardFile(".board-tmp-1.md") || IsCardFile("x.txt") {
		t.Error("IsCardFile misclassified")
	}
}
