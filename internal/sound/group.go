// Package sound turns grouped audio leaves into sound definitions and
// optionally bundles one file per group into a combined audio sprite.
package sound

import (
	"fmt"
	"path"
	"slices"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/catalog"
	"github.com/remvst/asset-catalog/internal/naming"
	"github.com/remvst/asset-catalog/internal/source"
)

// PlaybackOrder is the order in which a group lists its files. Runtimes try
// them front to back, so the most widely decodable format comes first.
var PlaybackOrder = []string{api.FormatOgg, api.FormatMp3, api.FormatWav}

// SpriteSourceOrder is the preference used to pick the single file of a
// group that feeds the sprite encoder. Lossless sources come first.
var SpriteSourceOrder = []string{api.FormatWav, api.FormatOgg, api.FormatMp3}

// Group is one logical sound: every file sharing a category and a base name.
type Group struct {
	Leaf            *catalog.Leaf
	Files           []source.File // PlaybackOrder, unknown formats last in discovery order.
	AverageFileSize int64
}

// Basename is the shared file name without extension.
func (g *Group) Basename() string { return g.Leaf.Key }

// SpriteKey names the group inside an audio sprite, e.g. "sfx/jump".
func (g *Group) SpriteKey() string {
	return path.Join(append(slices.Clone(g.Leaf.Categories), g.Leaf.Key)...)
}

// Paths returns the file paths in playback order.
func (g *Group) Paths() []string {
	out := make([]string, len(g.Files))
	for i, f := range g.Files {
		out[i] = f.Path
	}
	return out
}

// Bundle holds every group of a sound tree in depth-first tree order.
type Bundle struct {
	Groups []*Group
	byLeaf map[*catalog.Leaf]*Group
}

// Group returns the group built from leaf.
func (b *Bundle) Group(leaf *catalog.Leaf) (*Group, bool) {
	g, ok := b.byLeaf[leaf]
	return g, ok
}

// Aggregate builds one group per leaf of a Grouped tree, reading sizes from
// the snapshot.
func Aggregate(tree *catalog.Tree, snap *source.Snapshot) (*Bundle, error) {
	b := &Bundle{byLeaf: make(map[*catalog.Leaf]*Group)}
	for _, leaf := range tree.Leaves() {
		files := make([]source.File, 0, len(leaf.Paths))
		for _, p := range leaf.Paths {
			f, ok := snap.Lookup(p)
			if !ok {
				return nil, fmt.Errorf("sound: %s not in snapshot", p)
			}
			files = append(files, f)
		}
		files = OrderBy(files, PlaybackOrder, func(f source.File) string { return f.Path })

		sizes := make([]int64, len(files))
		for i, f := range files {
			sizes[i] = f.Size
		}
		g := &Group{Leaf: leaf, Files: files, AverageFileSize: AverageFileSize(sizes)}
		b.Groups = append(b.Groups, g)
		b.byLeaf[leaf] = g
	}
	return b, nil
}

// OrderBy stable-sorts items by the position of their extension in prefs.
// Extensions missing from prefs sort after all known ones.
func OrderBy[T any](items []T, prefs []string, pathOf func(T) string) []T {
	rank := func(item T) int {
		if i := slices.Index(prefs, naming.Ext(pathOf(item))); i >= 0 {
			return i
		}
		return len(prefs)
	}
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int { return rank(a) - rank(b) })
	return out
}

// AverageFileSize is the mean of sizes rounded half up. Zero for no sizes.
func AverageFileSize(sizes []int64) int64 {
	if len(sizes) == 0 {
		return 0
	}
	var sum int64
	for _, s := range sizes {
		sum += s
	}
	n := int64(len(sizes))
	return (2*sum + n) / (2 * n)
}
