// Package source captures the asset directory as an immutable snapshot and
// reads the metadata the generators trust: byte size and image dimensions.
package source

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/remvst/asset-catalog/internal/naming"
)

// File is one discovered asset.
type File struct {
	Path    string // Root joined with Rel, forward slashes.
	Rel     string // Relative to the asset root, forward slashes.
	Size    int64
	ModTime time.Time
}

// Snapshot is the list of files captured once at the start of a run. Every
// downstream component reads from it instead of the live directory.
type Snapshot struct {
	Root   string
	fs     billy.Filesystem
	files  []File
	byPath map[string]int
}

// Files returns the files sorted by path.
func (s *Snapshot) Files() []File { return s.files }

// Len is the number of files in the snapshot.
func (s *Snapshot) Len() int { return len(s.files) }

// Paths returns the file paths sorted lexicographically.
func (s *Snapshot) Paths() []string {
	out := make([]string, len(s.files))
	for i, f := range s.files {
		out[i] = f.Path
	}
	return out
}

// Lookup finds a file by path. The path is normalized first.
func (s *Snapshot) Lookup(p string) (File, bool) {
	i, ok := s.byPath[naming.Normalize(p)]
	if !ok {
		return File{}, false
	}
	return s.files[i], true
}

// Size returns the recorded byte size of p.
func (s *Snapshot) Size(p string) (int64, error) {
	f, ok := s.Lookup(p)
	if !ok {
		return 0, fmt.Errorf("%s: %w", p, os.ErrNotExist)
	}
	return f.Size, nil
}

// Open opens a snapshot file for reading.
func (s *Snapshot) Open(p string) (billy.File, error) {
	f, ok := s.Lookup(p)
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, os.ErrNotExist)
	}
	return s.fs.Open(f.Rel)
}

// Filter returns a snapshot holding the files for which keep returns true.
func (s *Snapshot) Filter(keep func(File) bool) *Snapshot {
	out := &Snapshot{Root: s.Root, fs: s.fs, byPath: make(map[string]int)}
	for _, f := range s.files {
		if keep(f) {
			out.byPath[f.Path] = len(out.files)
			out.files = append(out.files, f)
		}
	}
	return out
}

// Scanner lists the files under an asset root.
type Scanner struct {
	FS   billy.Filesystem // Rooted at the asset directory.
	Root string           // Prefix for File.Path.
}

// NewOSScanner scans the real directory at root.
func NewOSScanner(root string) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve asset dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("asset dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset dir %s is not a directory", abs)
	}
	return &Scanner{FS: osfs.New(abs), Root: naming.Normalize(abs)}, nil
}

// Scan walks the whole tree and returns the regular files whose lowercase
// extension is in exts, minus any path listed in skip. The result is sorted
// so repeated scans of an unchanged directory are identical.
func (s *Scanner) Scan(exts []string, skip ...string) (*Snapshot, error) {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		if p != "" {
			skipped[naming.Normalize(p)] = true
		}
	}

	var files []File
	err := util.Walk(s.FS, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if !slices.Contains(exts, naming.Ext(rel)) {
			return nil
		}
		full := naming.Normalize(path.Join(s.Root, rel))
		if skipped[full] {
			return nil
		}
		files = append(files, File{
			Path:    full,
			Rel:     rel,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.Root, err)
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	snap := &Snapshot{Root: s.Root, fs: s.FS, files: files, byPath: make(map[string]int, len(files))}
	for i, f := range files {
		snap.byPath[f.Path] = i
	}
	return snap, nil
}
