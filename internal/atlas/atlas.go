// Package atlas packs image leaves into one spritesheet and maps every
// source path to the region it occupies.
package atlas

import (
	"fmt"
	"image"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/catalog"
	"github.com/remvst/asset-catalog/internal/source"
)

// DefaultPadding is the transparent margin kept around each frame so
// neighbours do not bleed into each other when sampled.
const DefaultPadding = 1

// Options control one atlas build.
type Options struct {
	Padding int
	Exclude source.Exclusions // Matched against full and relative paths.
	Packer  Packer            // Default: GrowingPacker.
}

// Result is a packed atlas.
type Result struct {
	Width  int
	Height int
	// Frames maps each packed source path to its visible region, padding
	// excluded.
	Frames map[string]api.Rectangle
	// PNG is the encoded atlas. Nil when no leaf was packed.
	PNG []byte
}

// Len is the number of packed frames.
func (r *Result) Len() int { return len(r.Frames) }

// Build packs every leaf of tree that Exclude does not match. dims must hold
// the dimensions of every leaf path.
func Build(tree *catalog.Tree, snap *source.Snapshot, dims map[string]source.Dimensions, opts Options) (*Result, error) {
	packer := opts.Packer
	if packer == nil {
		packer = GrowingPacker{}
	}
	pad := opts.Padding

	var reqs []Request
	for _, leaf := range tree.Leaves() {
		f, ok := snap.Lookup(leaf.Path())
		if !ok {
			return nil, fmt.Errorf("atlas: %s not in snapshot", leaf.Path())
		}
		if opts.Exclude.Match(f.Rel) {
			continue
		}
		d, ok := dims[f.Path]
		if !ok {
			return nil, fmt.Errorf("atlas: no dimensions for %s", f.Path)
		}
		reqs = append(reqs, Request{ID: f.Path, Width: d.Width + 2*pad, Height: d.Height + 2*pad})
	}

	res := &Result{Frames: make(map[string]api.Rectangle, len(reqs))}
	if len(reqs) == 0 {
		return res, nil
	}

	layout, err := packer.Pack(reqs)
	if err != nil {
		return nil, err
	}
	if err := Verify(reqs, layout); err != nil {
		return nil, err
	}

	sprites := make([]Sprite, 0, len(layout.Placements))
	for _, p := range layout.Placements {
		img, err := decode(snap, p.ID)
		if err != nil {
			return nil, err
		}
		sprites = append(sprites, Sprite{Image: img, X: p.X + pad, Y: p.Y + pad})
		res.Frames[p.ID] = api.Rectangle{
			X:      p.X + pad,
			Y:      p.Y + pad,
			Width:  p.Width - 2*pad,
			Height: p.Height - 2*pad,
		}
	}

	png, err := Compose(layout.Width, layout.Height, sprites)
	if err != nil {
		return nil, err
	}
	res.Width, res.Height, res.PNG = layout.Width, layout.Height, png
	return res, nil
}

func decode(snap *source.Snapshot, path string) (image.Image, error) {
	r, err := snap.Open(path)
	if err != nil {
		return nil, &api.AssetError{Kind: api.ErrDecodeFailure, Paths: []string{path}, Cause: err}
	}
	defer func() { _ = r.Close() }()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &api.AssetError{Kind: api.ErrDecodeFailure, Paths: []string{path}, Cause: err}
	}
	return img, nil
}
