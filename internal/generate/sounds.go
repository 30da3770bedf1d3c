package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/catalog"
	"github.com/remvst/asset-catalog/internal/emit"
	"github.com/remvst/asset-catalog/internal/sound"
	"github.com/remvst/asset-catalog/internal/source"
	"go.uber.org/zap"
)

// Sounds generates the sound catalog described by cfg. With a sprite, the
// sprite files are encoded into a temp directory and moved into place only
// after the catalog rendered cleanly.
func (r *Runner) Sounds(ctx context.Context, cfg api.SoundConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	target, err := api.TargetFor(cfg.OutFile)
	if err != nil {
		return nil, err
	}
	if err := absPaths(&cfg.OutFile, &cfg.AssetDir, &cfg.Sprite); err != nil {
		return nil, err
	}

	skip := []string{cfg.OutFile}
	if cfg.Sprite != "" {
		for _, format := range cfg.SpriteFormats {
			skip = append(skip, cfg.Sprite+format)
		}
	}
	scanner, err := source.NewOSScanner(cfg.AssetDir)
	if err != nil {
		return nil, err
	}
	snap, err := scanner.Scan(cfg.Extensions(), skip...)
	if err != nil {
		return nil, err
	}
	r.Log.Info("snapshot", zap.String("root", snap.Root), zap.Int("files", snap.Len()))

	tree, err := catalog.Build(snap.Root, snap.Paths(), catalog.Grouped)
	if err != nil {
		return nil, err
	}
	bundle, err := sound.Aggregate(tree, snap)
	if err != nil {
		return nil, err
	}

	var (
		sprite *emit.SoundSprite
		moves  [][2]string // temp file, final path
	)
	if cfg.Sprite != "" {
		sel, err := sound.Select(bundle.Groups, source.Exclusions(cfg.SpriteExclude), cfg.SpriteSources)
		if err != nil {
			return nil, err
		}
		if len(sel) == 0 {
			r.Log.Warn("every sound excluded, sprite skipped", zap.String("sprite", cfg.Sprite))
		} else {
			if err := os.MkdirAll(filepath.Dir(cfg.Sprite), 0o755); err != nil {
				return nil, fmt.Errorf("create sprite dir: %w", err)
			}
			tmpDir, err := os.MkdirTemp(filepath.Dir(cfg.Sprite), ".asset-catalog-sprite-*")
			if err != nil {
				return nil, fmt.Errorf("create sprite temp dir: %w", err)
			}
			defer func() { _ = os.RemoveAll(tmpDir) }()

			base := filepath.Base(cfg.Sprite)
			built, err := r.Sprites.Build(ctx, sel, sound.SpriteOptions{
				Output:  filepath.Join(tmpDir, base),
				Formats: cfg.SpriteFormats,
				Gap:     cfg.SpriteGap,
			})
			if err != nil {
				return nil, err
			}
			sprite = &emit.SoundSprite{Basename: base, Timings: built.Timings}
			for _, tmp := range built.Files {
				size, err := fileSize(tmp)
				if err != nil {
					return nil, fmt.Errorf("sprite output: %w", err)
				}
				final := filepath.Join(filepath.Dir(cfg.Sprite), filepath.Base(tmp))
				sprite.Files = append(sprite.Files, source.File{Path: final, Size: size})
				moves = append(moves, [2]string{tmp, final})
			}
			r.Log.Info("sprite encoded", zap.Int("sounds", len(sel)), zap.Int("files", len(built.Files)))
		}
	}

	doc, err := emit.SoundDocument(emit.SoundInput{
		Tree:    tree,
		Bundle:  bundle,
		Sprite:  sprite,
		Imports: emit.NewImports(snap.Root, filepath.Dir(cfg.OutFile)),
		Package: PackageName(cfg.Package, cfg.OutFile),
	})
	if err != nil {
		return nil, err
	}
	r.logImports(doc)

	src, err := render(ctx, doc, target, cfg.OutFile)
	if err != nil {
		return nil, err
	}

	res := &Result{OutFile: cfg.OutFile, Assets: len(bundle.Groups)}
	if err := r.commit(res, moves, output{cfg.OutFile, src}); err != nil {
		return nil, fmt.Errorf("write sound catalog: %w", err)
	}
	r.Log.Info("sound catalog generated",
		zap.String("file", cfg.OutFile),
		zap.Int("sounds", res.Assets),
		zap.Int("written", len(res.Written)))
	return res, nil
}
