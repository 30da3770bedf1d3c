package atlas

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/remvst/asset-catalog/api"
)

// Request asks the packer for a cell of the given size.
type Request struct {
	ID     string
	Width  int
	Height int
}

// Placement is the cell assigned to one request.
type Placement struct {
	ID     string
	X      int
	Y      int
	Width  int
	Height int
}

// Layout is the result of packing: the canvas size and one placement per
// request.
type Layout struct {
	Width      int
	Height     int
	Placements []Placement
}

// Packer places rectangles on the smallest canvas it can find. It must
// return one placement per request, inside the canvas, none overlapping.
type Packer interface {
	Pack(reqs []Request) (Layout, error)
}

// GrowingPacker is a binary-tree packer whose canvas starts at the size of
// the first request and grows right or down, whichever keeps it closer to a
// square.
type GrowingPacker struct{}

type cell struct {
	x, y, w, h  int
	used        bool
	right, down *cell
}

// Pack implements Packer. Requests are placed largest side first; ties are
// broken by the smaller side and then by ID so the layout is deterministic.
func (GrowingPacker) Pack(reqs []Request) (Layout, error) {
	if len(reqs) == 0 {
		return Layout{}, nil
	}
	for _, r := range reqs {
		if r.Width <= 0 || r.Height <= 0 {
			return Layout{}, &api.AssetError{
				Kind:  api.ErrPackingFailure,
				Paths: []string{r.ID},
				Cause: fmt.Errorf("invalid size %dx%d", r.Width, r.Height),
			}
		}
	}

	sorted := slices.Clone(reqs)
	slices.SortStableFunc(sorted, func(a, b Request) int {
		if c := cmp.Compare(max(b.Width, b.Height), max(a.Width, a.Height)); c != 0 {
			return c
		}
		if c := cmp.Compare(min(b.Width, b.Height), min(a.Width, a.Height)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	g := &grower{root: &cell{w: sorted[0].Width, h: sorted[0].Height}}
	placements := make([]Placement, 0, len(sorted))
	for _, r := range sorted {
		c := g.find(g.root, r.Width, r.Height)
		if c == nil {
			c = g.grow(r.Width, r.Height)
		}
		if c == nil {
			return Layout{}, &api.AssetError{
				Kind:  api.ErrPackingFailure,
				Paths: []string{r.ID},
				Cause: fmt.Errorf("no room for %dx%d on %dx%d canvas", r.Width, r.Height, g.root.w, g.root.h),
			}
		}
		split(c, r.Width, r.Height)
		placements = append(placements, Placement{ID: r.ID, X: c.x, Y: c.y, Width: r.Width, Height: r.Height})
	}
	return Layout{Width: g.root.w, Height: g.root.h, Placements: placements}, nil
}

type grower struct {
	root *cell
}

func (g *grower) find(c *cell, w, h int) *cell {
	if c == nil {
		return nil
	}
	if c.used {
		if found := g.find(c.right, w, h); found != nil {
			return found
		}
		return g.find(c.down, w, h)
	}
	if w <= c.w && h <= c.h {
		return c
	}
	return nil
}

func split(c *cell, w, h int) {
	c.used = true
	c.down = &cell{x: c.x, y: c.y + h, w: c.w, h: c.h - h}
	c.right = &cell{x: c.x + w, y: c.y, w: c.w - w, h: h}
}

func (g *grower) grow(w, h int) *cell {
	root := g.root
	canDown := w <= root.w
	canRight := h <= root.h
	shouldRight := canRight && root.h >= root.w+w
	shouldDown := canDown && root.w >= root.h+h

	switch {
	case shouldRight:
		return g.growRight(w, h)
	case shouldDown:
		return g.growDown(w, h)
	case canRight:
		return g.growRight(w, h)
	case canDown:
		return g.growDown(w, h)
	default:
		return nil
	}
}

func (g *grower) growRight(w, h int) *cell {
	old := g.root
	g.root = &cell{
		used:  true,
		w:     old.w + w,
		h:     old.h,
		down:  old,
		right: &cell{x: old.w, w: w, h: old.h},
	}
	return g.find(g.root, w, h)
}

func (g *grower) growDown(w, h int) *cell {
	old := g.root
	g.root = &cell{
		used:  true,
		w:     old.w,
		h:     old.h + h,
		down:  &cell{y: old.h, w: old.w, h: h},
		right: old,
	}
	return g.find(g.root, w, h)
}
