package writeback

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Staged is content written to a temp file next to its destination and not
// yet moved into place. A Staged for unchanged content holds no temp file.
type Staged struct {
	Path    string
	tmp     string
	changed bool
}

// Changed reports whether committing replaces or creates Path.
func (s *Staged) Changed() bool { return s.changed }

// Stage writes content to a temp file in path's directory. An existing file
// with identical content yields an unchanged Staged and touches nothing.
func Stage(path string, content []byte, perm os.FileMode) (*Staged, error) {
	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, content) {
		return &Staged{Path: path}, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".asset-catalog-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("close temp: %w", err)
	}

	// Keep the mode of the file being replaced.
	mode := perm
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	_ = os.Chmod(tmpName, mode)
	return &Staged{Path: path, tmp: tmpName, changed: true}, nil
}

// Commit renames the temp file over Path. On error the previous file is
// left as it was and the temp file is removed.
func (s *Staged) Commit() error {
	if s.tmp == "" {
		return nil
	}
	tmp := s.tmp
	s.tmp = ""
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp to %s: %w", s.Path, err)
	}
	return nil
}

// Discard removes an uncommitted temp file. It is a no-op after Commit.
func (s *Staged) Discard() {
	if s.tmp != "" {
		_ = os.Remove(s.tmp)
		s.tmp = ""
	}
}
