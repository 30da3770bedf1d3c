package atlas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/catalog"
	"github.com/remvst/asset-catalog/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/assets"

func solid(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	tree *catalog.Tree
	snap *source.Snapshot
	dims map[string]source.Dimensions
}

func setup(t *testing.T, files map[string][]byte) fixture {
	t.Helper()
	return setupAt(t, root, files)
}

func setupAt(t *testing.T, root string, files map[string][]byte) fixture {
	t.Helper()
	fs := memfs.New()
	for name, data := range files {
		require.NoError(t, util.WriteFile(fs, name, data, 0o644))
	}
	snap, err := (&source.Scanner{FS: fs, Root: root}).Scan([]string{".png"})
	require.NoError(t, err)
	tree, err := catalog.Build(root, snap.Paths(), catalog.Single)
	require.NoError(t, err)
	prober, err := source.NewProber(64)
	require.NoError(t, err)
	dims, err := prober.ProbeAll(t.Context(), snap, snap.Files())
	require.NoError(t, err)
	return fixture{tree: tree, snap: snap, dims: dims}
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestBuild_FramesExcludePadding(t *testing.T) {
	fx := setup(t, map[string][]byte{
		"ui/button.png":     solid(t, 64, 32, red),
		"ui/icons/gear.png": solid(t, 16, 16, blue),
	})

	var packed Layout
	res, err := Build(fx.tree, fx.snap, fx.dims, Options{
		Padding: 1,
		Packer:  recordingPacker{out: &packed},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Len())

	for _, p := range packed.Placements {
		frame := res.Frames[p.ID]
		assert.Equal(t, api.Rectangle{X: p.X + 1, Y: p.Y + 1, Width: p.Width - 2, Height: p.Height - 2}, frame, p.ID)
	}
	assert.Equal(t, 64, res.Frames[root+"/ui/button.png"].Width)
	assert.Equal(t, 32, res.Frames[root+"/ui/button.png"].Height)
	assert.Equal(t, 16, res.Frames[root+"/ui/icons/gear.png"].Width)

	img, err := png.Decode(bytes.NewReader(res.PNG))
	require.NoError(t, err)
	assert.Equal(t, res.Width, img.Bounds().Dx())
	assert.Equal(t, res.Height, img.Bounds().Dy())

	button := res.Frames[root+"/ui/button.png"]
	assert.Equal(t, red, color.NRGBAModel.Convert(img.At(button.X, button.Y)))
	assert.Equal(t, red, color.NRGBAModel.Convert(img.At(button.X+button.Width-1, button.Y+button.Height-1)))
	assert.Equal(t, uint8(0), color.NRGBAModel.Convert(img.At(button.X-1, button.Y-1)).(color.NRGBA).A, "padding stays transparent")

	gear := res.Frames[root+"/ui/icons/gear.png"]
	assert.Equal(t, blue, color.NRGBAModel.Convert(img.At(gear.X, gear.Y)))
}

func TestBuild_Exclusions(t *testing.T) {
	fx := setup(t, map[string][]byte{
		"ui/button.png":        solid(t, 8, 8, red),
		"backgrounds/sky.png":  solid(t, 128, 128, blue),
		"backgrounds/hill.png": solid(t, 128, 64, blue),
	})
	res, err := Build(fx.tree, fx.snap, fx.dims, Options{Padding: 1, Exclude: source.Exclusions{"backgrounds/**"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
	assert.Contains(t, res.Frames, root+"/ui/button.png")
	assert.Equal(t, 10, res.Width)
	assert.Equal(t, 10, res.Height)
}

func TestBuild_ExclusionsIgnoreDirsAboveRoot(t *testing.T) {
	base := "/work/ui-kit/assets"
	fx := setupAt(t, base, map[string][]byte{
		"ui/button.png":  solid(t, 8, 8, red),
		"world/tree.png": solid(t, 4, 4, blue),
	})
	res, err := Build(fx.tree, fx.snap, fx.dims, Options{Exclude: source.Exclusions{"ui"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
	assert.Contains(t, res.Frames, base+"/world/tree.png")
	assert.NotContains(t, res.Frames, base+"/ui/button.png")
}

func TestBuild_NothingToPack(t *testing.T) {
	fx := setup(t, map[string][]byte{"bg.png": solid(t, 4, 4, red)})
	res, err := Build(fx.tree, fx.snap, fx.dims, Options{Exclude: source.Exclusions{"bg"}})
	require.NoError(t, err)
	assert.Zero(t, res.Len())
	assert.Nil(t, res.PNG)
}

func TestBuild_BadPackerIsPackingFailure(t *testing.T) {
	fx := setup(t, map[string][]byte{
		"a.png": solid(t, 4, 4, red),
		"b.png": solid(t, 4, 4, red),
	})
	_, err := Build(fx.tree, fx.snap, fx.dims, Options{Packer: stackingPacker{}})
	assert.ErrorIs(t, err, api.ErrPackingFailure)
}

func TestManifest(t *testing.T) {
	res := &Result{
		Width:  66,
		Height: 52,
		Frames: map[string]api.Rectangle{
			root + "/ui/button.png": {X: 1, Y: 1, Width: 64, Height: 32},
		},
	}
	out := Manifest(res, "atlas.png", func(p string) string { return p[len(root)+1:] })

	doc, err := oj.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(64)}, jp.MustParseString(`$.frames['ui/button.png'].frame.w`).Get(doc))
	assert.Equal(t, []any{"atlas.png"}, jp.MustParseString(`$.meta.image`).Get(doc))
	assert.Equal(t, []any{int64(52)}, jp.MustParseString(`$.meta.size.h`).Get(doc))

	again := Manifest(res, "atlas.png", func(p string) string { return p[len(root)+1:] })
	assert.Equal(t, out, again)
}

type recordingPacker struct {
	out *Layout
}

func (r recordingPacker) Pack(reqs []Request) (Layout, error) {
	l, err := GrowingPacker{}.Pack(reqs)
	*r.out = l
	return l, err
}

// stackingPacker puts everything at the origin.
type stackingPacker struct{}

func (stackingPacker) Pack(reqs []Request) (Layout, error) {
	var l Layout
	for _, r := range reqs {
		l.Placements = append(l.Placements, Placement{ID: r.ID, Width: r.Width, Height: r.Height})
		l.Width, l.Height = max(l.Width, r.Width), max(l.Height, r.Height)
	}
	return l, nil
}
