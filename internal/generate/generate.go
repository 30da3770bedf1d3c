// Package generate runs the image and sound catalog pipelines end to end:
// snapshot, tree, metadata, optional packing, emission and the final write.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/emit"
	"github.com/remvst/asset-catalog/internal/naming"
	"github.com/remvst/asset-catalog/internal/sound"
	"github.com/remvst/asset-catalog/internal/source"
	"github.com/remvst/asset-catalog/internal/writeback"
	"go.uber.org/zap"
)

// DefaultProbeCache is the number of image headers remembered between runs.
const DefaultProbeCache = 4096

// Runner regenerates catalogs. Reusing one Runner across watch rebuilds
// keeps its probe cache warm.
type Runner struct {
	Log     *zap.Logger
	Prober  *source.Prober
	Sprites sound.SpriteBuilder
}

// NewRunner returns a Runner that encodes sprites with ffmpeg.
func NewRunner(log *zap.Logger) (*Runner, error) {
	prober, err := source.NewProber(DefaultProbeCache)
	if err != nil {
		return nil, err
	}
	return &Runner{Log: log, Prober: prober, Sprites: sound.NewFFmpeg(log)}, nil
}

// Result summarizes one run.
type Result struct {
	OutFile string
	Assets  int      // Leaves in the catalog.
	Written []string // Files created or replaced, the catalog last.
}

// output is a file to write once everything else succeeded.
type output struct {
	path    string
	content []byte
}

// render turns doc into checked source text for outFile.
func render(ctx context.Context, doc *emit.Document, target api.Target, outFile string) ([]byte, error) {
	src, err := emit.Render(doc, target)
	if err != nil {
		return nil, err
	}
	if target == api.TargetGo {
		if src, err = writeback.FormatGo(src, outFile); err != nil {
			return nil, err
		}
	}
	if err := writeback.Validate(ctx, src, outFile); err != nil {
		return nil, fmt.Errorf("generated catalog is invalid: %w", err)
	}
	return src, nil
}

// commit stages every output before touching any destination, then moves
// the renames into place and commits outputs in order. A failure while
// staging leaves every previous file as it was.
func (r *Runner) commit(res *Result, moves [][2]string, outs ...output) error {
	staged := make([]*writeback.Staged, 0, len(outs))
	discard := func() {
		for _, s := range staged {
			s.Discard()
		}
	}
	for _, o := range outs {
		s, err := writeback.Stage(o.path, o.content, 0o644)
		if err != nil {
			discard()
			return err
		}
		staged = append(staged, s)
	}

	for _, mv := range moves {
		if err := os.Rename(mv[0], mv[1]); err != nil {
			discard()
			return fmt.Errorf("move %s into place: %w", mv[1], err)
		}
		res.Written = append(res.Written, mv[1])
	}
	for i, s := range staged {
		if err := s.Commit(); err != nil {
			discard()
			return err
		}
		if s.Changed() {
			res.Written = append(res.Written, s.Path)
		}
		r.Log.Debug("output", zap.String("file", s.Path), zap.Bool("changed", s.Changed()), zap.Int("bytes", len(outs[i].content)))
	}
	return nil
}

func (r *Runner) logImports(doc *emit.Document) {
	for _, im := range doc.Imports {
		r.Log.Debug("import", zap.String("name", im.Name), zap.String("path", im.Path))
	}
}

// absPaths resolves every non-empty path.
func absPaths(paths ...*string) error {
	for _, p := range paths {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// PackageName is the Go package clause for a catalog written to outFile:
// configured wins, otherwise the sanitized name of the output directory.
func PackageName(configured, outFile string) string {
	if configured != "" {
		return configured
	}
	dir := filepath.Base(filepath.Dir(outFile))
	name := strings.Trim(strings.ToLower(naming.Sanitize(dir)), "_")
	switch {
	case name == "":
		return "assets"
	case name[0] >= '0' && name[0] <= '9':
		return "x" + name
	}
	return name
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
