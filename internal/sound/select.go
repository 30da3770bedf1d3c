package sound

import (
	"path"
	"slices"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/naming"
	"github.com/remvst/asset-catalog/internal/source"
)

// Selection is the file chosen to represent a group inside the sprite.
type Selection struct {
	Group *Group
	File  source.File
}

// Key is the group's sprite key.
func (s Selection) Key() string { return s.Group.SpriteKey() }

// Select picks one file per group for the sprite, in group order. Groups
// whose category (or the raw directory of their first file) matches exclude
// are skipped. allowed limits the candidate formats, empty allowing all of
// SpriteSourceOrder. A remaining group without a candidate is an
// [api.ErrNoCandidateForSprite].
func Select(groups []*Group, exclude source.Exclusions, allowed []string) ([]Selection, error) {
	var out []Selection
	for _, g := range groups {
		if excluded(g, exclude) {
			continue
		}
		candidates := OrderBy(g.Files, SpriteSourceOrder, func(f source.File) string { return f.Path })
		idx := slices.IndexFunc(candidates, func(f source.File) bool {
			ext := naming.Ext(f.Path)
			return slices.Contains(SpriteSourceOrder, ext) &&
				(len(allowed) == 0 || slices.Contains(allowed, ext))
		})
		if idx < 0 {
			return nil, &api.AssetError{
				Kind:     api.ErrNoCandidateForSprite,
				Category: g.Leaf.CategoryKey(),
				Key:      g.Basename(),
				Paths:    g.Paths(),
			}
		}
		out = append(out, Selection{Group: g, File: candidates[idx]})
	}
	return out, nil
}

func excluded(g *Group, exclude source.Exclusions) bool {
	if len(exclude) == 0 {
		return false
	}
	if cat := g.Leaf.CategoryKey(); cat != "" && exclude.Match(cat) {
		return true
	}
	if len(g.Files) > 0 {
		if dir := path.Dir(g.Files[0].Rel); dir != "." && exclude.Match(dir) {
			return true
		}
	}
	return false
}
