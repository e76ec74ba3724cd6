package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	s, err := New(filepath.Join(base, "uploads"), filepath.Join(base, "outputs"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSaveUpload(t *testing.T) {
	s := newTestStore(t)

	id, path, err := s.SaveUpload("Statement.PDF", strings.NewReader("%PDF-1.4 content"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if id == "" {
		t.Error("expected a non-empty ID")
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Errorf("path %q should keep a lowercased extension", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored upload: %v", err)
	}
	if string(data) != "%PDF-1.4 content" {
		t.Errorf("stored content = %q", data)
	}
}

func TestSaveUploadUniqueIDs(t *testing.T) {
	s := newTestStore(t)
	id1, _, err := s.SaveUpload("a.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	id2, _, err := s.SaveUpload("a.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if id1 == id2 {
		t.Error("expected distinct IDs for repeated uploads")
	}
}

func TestResolveOutput(t *testing.T) {
	s := newTestStore(t)

	path := s.OutputPath("abc123", ".csv")
	if err := os.WriteFile(path, []byte("Date,Description\n"), 0o644); err != nil {
		t.Fatalf("write output: %v", err)
	}

	got, err := s.ResolveOutput("abc123.csv")
	if err != nil {
		t.Fatalf("ResolveOutput: %v", err)
	}
	if got != path {
		t.Errorf("ResolveOutput = %q, want %q", got, path)
	}
}

func TestResolveOutputRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"", ".", "../secret", "a/b.csv", "..\\evil"} {
		if _, err := s.ResolveOutput(name); err == nil {
			t.Errorf("ResolveOutput(%q) should fail", name)
		}
	}
}

func TestResolveOutputMissingFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ResolveOutput("nope.csv"); err == nil {
		t.Error("expected error for missing output")
	}
}

func TestRemoveUpload(t *testing.T) {
	s := newTestStore(t)
	_, path, err := s.SaveUpload("a.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	s.RemoveUpload(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("upload should be gone")
	}
}

func TestRemoveUploadIgnoresForeignPaths(t *testing.T) {
	s := newTestStore(t)
	foreign := filepath.Join(t.TempDir(), "keep.txt")
	if err := os.WriteFile(foreign, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s.RemoveUpload(foreign)
	if _, err := os.Stat(foreign); err != nil {
		t.Error("file outside the upload dir must not be removed")
	}
}

func TestSweep(t *testing.T) {
	s := newTestStore(t)

	_, oldPath, err := s.SaveUpload("old.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	_, freshPath, err := s.SaveUpload("fresh.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}

	removed, err := s.Sweep(time.Hour)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("stale file should be swept")
	}
	if _, err := os.Stat(freshPath); err != nil {
		t.Error("fresh file should survive the sweep")
	}
}
