package source

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"runtime"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/remvst/asset-catalog/api"
	"golang.org/x/sync/errgroup"
)

// Dimensions is the pixel size recorded in an image header.
type Dimensions struct {
	Width  int
	Height int
}

type probeKey struct {
	path string
	size int64
	mod  int64
}

// Prober reads image headers. Results are cached by path, size and
// modification time, so a long-lived Prober (watch mode) only re-reads the
// files that changed.
type Prober struct {
	Workers int // Default: GOMAXPROCS.
	// Store, when set, is consulted after the in-memory cache and receives
	// every freshly decoded header.
	Store DimensionStore
	cache *lru.Cache[probeKey, Dimensions]
}

// NewProber creates a prober whose cache holds up to cacheSize headers.
func NewProber(cacheSize int) (*Prober, error) {
	cache, err := lru.New[probeKey, Dimensions](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("probe cache: %w", err)
	}
	return &Prober{cache: cache}, nil
}

// Dimensions decodes the header of one snapshot file.
func (p *Prober) Dimensions(snap *Snapshot, f File) (Dimensions, error) {
	key := probeKey{path: f.Path, size: f.Size, mod: f.ModTime.UnixNano()}
	if d, ok := p.cache.Get(key); ok {
		return d, nil
	}
	if p.Store != nil {
		if d, ok := p.Store.Get(key.path, key.size, key.mod); ok {
			p.cache.Add(key, d)
			return d, nil
		}
	}

	r, err := snap.Open(f.Path)
	if err != nil {
		return Dimensions{}, decodeFailure(f.Path, err)
	}
	defer func() { _ = r.Close() }()

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return Dimensions{}, decodeFailure(f.Path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, decodeFailure(f.Path, fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height))
	}
	d := Dimensions{Width: cfg.Width, Height: cfg.Height}
	p.cache.Add(key, d)
	if p.Store != nil {
		if err := p.Store.Put(key.path, key.size, key.mod, d); err != nil {
			return Dimensions{}, fmt.Errorf("store header of %s: %w", f.Path, err)
		}
	}
	return d, nil
}

// WithStore returns a copy of p sharing its memory cache and backed by s.
func (p *Prober) WithStore(s DimensionStore) *Prober {
	cp := *p
	cp.Store = s
	return &cp
}

// ProbeAll reads every file's header concurrently and returns the results
// keyed by path. The first failure cancels the remaining probes.
func (p *Prober) ProbeAll(ctx context.Context, snap *Snapshot, files []File) (map[string]Dimensions, error) {
	dims := make([]Dimensions, len(files))

	g, ctx := errgroup.WithContext(ctx)
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := p.Dimensions(snap, f)
			if err != nil {
				return err
			}
			dims[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]Dimensions, len(files))
	for i, f := range files {
		out[f.Path] = dims[i]
	}
	return out, nil
}

func decodeFailure(path string, err error) error {
	return &api.AssetError{Kind: api.ErrDecodeFailure, Paths: []string{path}, Cause: err}
}
