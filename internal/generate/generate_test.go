package generate

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/sound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{G: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeBytes(t *testing.T, path string, n int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, n), 0o644))
}

func newRunner(t *testing.T, sprites sound.SpriteBuilder) *Runner {
	t.Helper()
	r, err := NewRunner(zap.NewNop())
	require.NoError(t, err)
	if sprites != nil {
		r.Sprites = sprites
	}
	return r
}

func squash(b []byte) string { return strings.Join(strings.Fields(string(b)), "") }

func TestImages_TypeScript(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	writePNG(t, filepath.Join(assets, "ui", "button.png"), 64, 32)
	writePNG(t, filepath.Join(assets, "ui", "icons", "gear.png"), 16, 16)

	cfg := api.DefaultImageConfig()
	cfg.AssetDir = assets
	cfg.OutFile = filepath.Join(dir, "src", "textures.ts")

	res, err := newRunner(t, nil).Images(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assets)
	assert.Equal(t, []string{cfg.OutFile}, res.Written)

	out, err := os.ReadFile(cfg.OutFile)
	require.NoError(t, err)
	assert.Contains(t, string(out), "import _ui_button_png from '../assets/ui/button.png';")
	assert.Contains(t, squash(out), "exporttypeTextureCatalog<T>={ui:{button:T,icons:{gear:T,},},};")
	assert.Contains(t, squash(out), "width:64,height:32,")
}

func TestImages_AtlasInsideAssetDirIsIdempotent(t *testing.T) {
	assets := t.TempDir()
	writePNG(t, filepath.Join(assets, "ui", "button.png"), 64, 32)
	writePNG(t, filepath.Join(assets, "ui", "icons", "gear.png"), 16, 16)
	writePNG(t, filepath.Join(assets, "backgrounds", "sky.png"), 8, 8)

	cfg := api.DefaultImageConfig()
	cfg.AssetDir = assets
	cfg.OutFile = filepath.Join(assets, "textures.ts")
	cfg.Spritesheet = filepath.Join(assets, "atlas.png")
	cfg.Manifest = filepath.Join(assets, "atlas.json")
	cfg.SpritesheetExclude = []string{"backgrounds"}

	r := newRunner(t, nil)
	res, err := r.Images(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.Spritesheet, cfg.Manifest, cfg.OutFile}, res.Written)

	first, err := os.ReadFile(cfg.OutFile)
	require.NoError(t, err)
	assert.Contains(t, string(first), "import SpriteSheetPng from './atlas.png';")
	assert.NotContains(t, string(first), "_atlas_png")
	flat := squash(first)
	assert.Contains(t, flat, "sky:createItem({path:_backgrounds_sky_png,width:8,height:8,")
	assert.Contains(t, flat, "spriteData:{sheet:SpriteSheetPng,frame:{")

	f, err := os.Open(cfg.Spritesheet)
	require.NoError(t, err)
	conf, err := png.DecodeConfig(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)

	manifest, err := os.ReadFile(cfg.Manifest)
	require.NoError(t, err)
	doc, err := oj.Parse(manifest)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(conf.Width)}, jp.MustParseString("$.meta.size.w").Get(doc))
	assert.Equal(t, []any{"atlas.png"}, jp.MustParseString("$.meta.image").Get(doc))
	assert.Equal(t, []any{int64(64)}, jp.MustParseString("$.frames['ui/button.png'].frame.w").Get(doc))
	assert.Empty(t, jp.MustParseString("$.frames['backgrounds/sky.png']").Get(doc))

	res, err = r.Images(t.Context(), cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Written, "unchanged assets rewrite nothing")
	second, err := os.ReadFile(cfg.OutFile)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestImages_Go(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "assets", "ui", "button.png"), 4, 4)

	cfg := api.DefaultImageConfig()
	cfg.AssetDir = filepath.Join(dir, "assets")
	cfg.OutFile = filepath.Join(dir, "gen", "textures.go")

	_, err := newRunner(t, nil).Images(t.Context(), cfg)
	require.NoError(t, err)

	out, err := os.ReadFile(cfg.OutFile)
	require.NoError(t, err)
	file, err := parser.ParseFile(token.NewFileSet(), cfg.OutFile, out, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "gen", file.Name.Name)
	assert.Contains(t, string(out), "func CreateTextureCatalog[T any](")
}

func TestImages_ErrorKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	writePNG(t, filepath.Join(assets, "ui", "a.png"), 4, 4)
	writePNG(t, filepath.Join(assets, "ui", "a.gif"), 4, 4)
	out := filepath.Join(dir, "textures.ts")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	cfg := api.DefaultImageConfig()
	cfg.AssetDir = assets
	cfg.OutFile = out
	cfg.Extensions = []string{".png", ".gif"}

	_, err := newRunner(t, nil).Images(t.Context(), cfg)
	require.ErrorIs(t, err, api.ErrDuplicateAssetKey)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(got))
}

func TestImages_DecodeFailure(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, filepath.Join(dir, "broken.png"), 12)

	cfg := api.DefaultImageConfig()
	cfg.AssetDir = dir
	cfg.OutFile = filepath.Join(dir, "textures.ts")

	_, err := newRunner(t, nil).Images(t.Context(), cfg)
	require.ErrorIs(t, err, api.ErrDecodeFailure)
	assert.NoFileExists(t, cfg.OutFile)
}

// fakeSprites writes a small file per format and spaces entries 2s apart.
type fakeSprites struct {
	selected []string
}

func (f *fakeSprites) Build(_ context.Context, sel []sound.Selection, opts sound.SpriteOptions) (*sound.Sprite, error) {
	sp := &sound.Sprite{Timings: map[string]api.SpriteTiming{}}
	for i, s := range sel {
		f.selected = append(f.selected, s.File.Rel)
		sp.Timings[s.Key()] = api.SpriteTiming{Start: float64(2 * i), End: float64(2*i) + 0.5}
	}
	for i, format := range opts.Formats {
		p := opts.Output + format
		if err := os.WriteFile(p, make([]byte, 100*(i+1)), 0o644); err != nil {
			return nil, err
		}
		sp.Files = append(sp.Files, p)
	}
	return sp, nil
}

func TestSounds_Groups(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, filepath.Join(dir, "sfx", "jump.ogg"), 40)
	writeBytes(t, filepath.Join(dir, "sfx", "jump.mp3"), 60)
	writeBytes(t, filepath.Join(dir, "sfx", "jump.wav"), 1000)

	cfg := api.DefaultSoundConfig()
	cfg.AssetDir = dir
	cfg.OutFile = filepath.Join(dir, "sounds.ts")

	res, err := newRunner(t, nil).Sounds(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assets)

	out, err := os.ReadFile(cfg.OutFile)
	require.NoError(t, err)
	flat := squash(out)
	assert.Contains(t, flat, "jump:createItem({basename:'jump',files:[_sfx_jump_ogg,_sfx_jump_mp3],averageFileSize:50,sprite:null,}),")
	assert.NotContains(t, flat, "wav", "wav is disabled by default")
}

func TestSounds_Sprite(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, filepath.Join(dir, "sfx", "jump.ogg"), 40)
	writeBytes(t, filepath.Join(dir, "sfx", "jump.mp3"), 60)
	writeBytes(t, filepath.Join(dir, "ui", "click.ogg"), 10)
	writeBytes(t, filepath.Join(dir, "ui", "click.mp3"), 10)

	cfg := api.DefaultSoundConfig()
	cfg.AssetDir = dir
	cfg.OutFile = filepath.Join(dir, "sounds.ts")
	cfg.Sprite = filepath.Join(dir, "sprite")
	cfg.SpriteExclude = []string{"sfx"}

	fake := &fakeSprites{}
	r := newRunner(t, fake)
	res, err := r.Sounds(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"ui/click.ogg"}, fake.selected)
	assert.Equal(t, []string{cfg.Sprite + ".mp3", cfg.Sprite + ".ogg", cfg.OutFile}, res.Written)
	assert.FileExists(t, cfg.Sprite+".ogg")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".asset-catalog"), "temp %s left behind", e.Name())
	}

	out, err := os.ReadFile(cfg.OutFile)
	require.NoError(t, err)
	flat := squash(out)
	assert.Contains(t, flat, "jump:createItem({basename:'jump',files:[_sfx_jump_ogg,_sfx_jump_mp3],averageFileSize:50,sprite:null,}),")
	assert.Contains(t, flat, "sprite:{key:'ui/click',start:0,end:0.5,loop:false,}")
	assert.Contains(t, flat, "exportconstsoundSprite:SoundDefinition={basename:'sprite',files:[SoundSpriteOgg,SoundSpriteMp3],averageFileSize:150,sprite:null,};")
	assert.Contains(t, string(out), "import SoundSpriteOgg from './sprite.ogg';")

	// The sprite files sit in the asset dir but never become sounds.
	_, err = r.Sounds(t.Context(), cfg)
	require.NoError(t, err)
	again, err := os.ReadFile(cfg.OutFile)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSounds_NoCandidate(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, filepath.Join(dir, "sfx", "jump.ogg"), 40)

	cfg := api.DefaultSoundConfig()
	cfg.AssetDir = dir
	cfg.OutFile = filepath.Join(dir, "sounds.ts")
	cfg.Sprite = filepath.Join(dir, "sprite")
	cfg.SpriteSources = []string{"wav"}

	_, err := newRunner(t, &fakeSprites{}).Sounds(t.Context(), cfg)
	require.ErrorIs(t, err, api.ErrNoCandidateForSprite)
	assert.NoFileExists(t, cfg.OutFile)
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "custom", PackageName("custom", "/x/gen/textures.go"))
	assert.Equal(t, "gen", PackageName("", "/x/gen/textures.go"))
	assert.Equal(t, "my_assets", PackageName("", "/x/My-Assets/textures.go"))
	assert.Equal(t, "x2d", PackageName("", "/x/2d/textures.go"))
}

func TestImages_DiskCache(t *testing.T) {
	assets := t.TempDir()
	writePNG(t, filepath.Join(assets, "ui", "button.png"), 6, 4)

	cfg := api.DefaultImageConfig()
	cfg.AssetDir = assets
	cfg.OutFile = filepath.Join(assets, "textures.ts")
	cfg.Cache = filepath.Join(assets, "probe.db")

	res, err := newRunner(t, nil).Images(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assets)
	assert.FileExists(t, cfg.Cache)

	// A new runner starts with a cold memory cache and reads the file.
	res, err = newRunner(t, nil).Images(t.Context(), cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Written)

	out, err := os.ReadFile(cfg.OutFile)
	require.NoError(t, err)
	assert.Contains(t, squash(out), "width:6,height:4,")
}

func TestImages_CatalogFailureKeepsPreviousAtlas(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	writePNG(t, filepath.Join(assets, "ui", "button.png"), 4, 4)
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	sheet := filepath.Join(out, "atlas.png")
	manifest := filepath.Join(out, "atlas.json")
	require.NoError(t, os.WriteFile(sheet, []byte("old sheet"), 0o644))
	require.NoError(t, os.WriteFile(manifest, []byte("old manifest"), 0o644))

	// The catalog's directory cannot be created: its parent is a file.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	cfg := api.DefaultImageConfig()
	cfg.AssetDir = assets
	cfg.OutFile = filepath.Join(blocker, "textures.ts")
	cfg.Spritesheet = sheet
	cfg.Manifest = manifest

	_, err := newRunner(t, nil).Images(t.Context(), cfg)
	require.Error(t, err)

	got, err := os.ReadFile(sheet)
	require.NoError(t, err)
	assert.Equal(t, "old sheet", string(got))
	got, err = os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Equal(t, "old manifest", string(got))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "staged temp files are removed")
}
