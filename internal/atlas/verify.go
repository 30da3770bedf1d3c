package atlas

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring"
	"github.com/remvst/asset-catalog/api"
)

// Verify checks a layout against the requests it was computed for: every
// request placed exactly once at its requested size, inside the canvas, and
// no two cells sharing a pixel.
func Verify(reqs []Request, layout Layout) error {
	fail := func(ids []string, format string, args ...any) error {
		return &api.AssetError{Kind: api.ErrPackingFailure, Paths: ids, Cause: fmt.Errorf(format, args...)}
	}

	if len(layout.Placements) != len(reqs) {
		return fail(nil, "%d placements for %d requests", len(layout.Placements), len(reqs))
	}
	if uint64(layout.Width)*uint64(layout.Height) > math.MaxUint32 {
		return fail(nil, "canvas %dx%d too large", layout.Width, layout.Height)
	}

	want := make(map[string]Request, len(reqs))
	for _, r := range reqs {
		want[r.ID] = r
	}

	covered := roaring.New()
	owner := make(map[string]bool, len(reqs))
	stride := uint64(layout.Width)
	for _, p := range layout.Placements {
		r, ok := want[p.ID]
		if !ok {
			return fail([]string{p.ID}, "placement for unknown request")
		}
		if owner[p.ID] {
			return fail([]string{p.ID}, "placed twice")
		}
		owner[p.ID] = true
		if p.Width != r.Width || p.Height != r.Height {
			return fail([]string{p.ID}, "placed as %dx%d, requested %dx%d", p.Width, p.Height, r.Width, r.Height)
		}
		if p.X < 0 || p.Y < 0 || p.X+p.Width > layout.Width || p.Y+p.Height > layout.Height {
			return fail([]string{p.ID}, "cell %d,%d %dx%d outside %dx%d canvas", p.X, p.Y, p.Width, p.Height, layout.Width, layout.Height)
		}

		cells := roaring.New()
		for y := p.Y; y < p.Y+p.Height; y++ {
			start := uint64(y)*stride + uint64(p.X)
			cells.AddRange(start, start+uint64(p.Width))
		}
		if covered.Intersects(cells) {
			return fail([]string{p.ID}, "cell %d,%d %dx%d overlaps another placement", p.X, p.Y, p.Width, p.Height)
		}
		covered.Or(cells)
	}
	return nil
}
