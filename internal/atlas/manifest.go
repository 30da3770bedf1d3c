package atlas

import (
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// Manifest renders the atlas frames as a TexturePacker-style JSON hash.
// keyOf maps a source path to its frame name. Keys are sorted so the output
// only changes when the atlas does.
func Manifest(res *Result, image string, keyOf func(path string) string) []byte {
	frames := make(map[string]any, len(res.Frames))
	for path, r := range res.Frames {
		frames[keyOf(path)] = map[string]any{
			"frame":      map[string]any{"x": r.X, "y": r.Y, "w": r.Width, "h": r.Height},
			"rotated":    false,
			"trimmed":    false,
			"sourceSize": map[string]any{"w": r.Width, "h": r.Height},
		}
	}
	doc := map[string]any{
		"frames": frames,
		"meta": map[string]any{
			"image":  image,
			"format": "RGBA8888",
			"size":   map[string]any{"w": res.Width, "h": res.Height},
			"scale":  1,
		},
	}
	return []byte(oj.JSON(doc, &ojg.Options{Indent: 2, Sort: true}) + "\n")
}
