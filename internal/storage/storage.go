// Package storage keeps uploaded documents and conversion outputs on local
// disk under opaque names. Results are temporary; Sweep discards anything
// past its welcome.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store handles upload and output files for the service.
type Store struct {
	uploadDir string
	outputDir string
}

// New creates a store rooted at the two directories, creating them if
// needed.
func New(uploadDir, outputDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory %q: %w", dir, err)
		}
	}
	return &Store{uploadDir: uploadDir, outputDir: outputDir}, nil
}

// SaveUpload stores an uploaded document under a fresh ID, preserving the
// original extension, and returns the ID and the full path.
func (s *Store) SaveUpload(filename string, r io.Reader) (id, path string, err error) {
	id = uuid.New().String()
	path = filepath.Join(s.uploadDir, id+strings.ToLower(filepath.Ext(filename)))

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("write upload file: %w", err)
	}
	return id, path, nil
}

// OutputPath returns the output file path for an ID and extension
// (".csv", ".xlsx").
func (s *Store) OutputPath(id, ext string) string {
	return filepath.Join(s.outputDir, id+ext)
}

// ResolveOutput validates a bare output file name and returns its full
// path. Names containing path separators are rejected.
func (s *Store) ResolveOutput(name string) (string, error) {
	if name == "" || name == "." || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid output name %q", name)
	}
	path := filepath.Join(s.outputDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("output %q: %w", name, err)
	}
	return path, nil
}

// RemoveUpload deletes a stored upload once processing is done.
func (s *Store) RemoveUpload(path string) {
	if strings.HasPrefix(path, s.uploadDir) {
		os.Remove(path)
	}
}

// Sweep deletes uploads and outputs older than maxAge and reports how many
// files were removed.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, dir := range []string{s.uploadDir, s.outputDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return removed, fmt.Errorf("read %q: %w", dir, err)
		}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil || info.IsDir() {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if os.Remove(filepath.Join(dir, e.Name())) == nil {
					removed++
				}
			}
		}
	}
	return removed, nil
}
