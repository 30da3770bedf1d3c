package generate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/atlas"
	"github.com/remvst/asset-catalog/internal/catalog"
	"github.com/remvst/asset-catalog/internal/emit"
	"github.com/remvst/asset-catalog/internal/naming"
	"github.com/remvst/asset-catalog/internal/source"
	"go.uber.org/zap"
)

// Images generates the texture catalog described by cfg. Nothing is
// written unless every step succeeds; the catalog is written last.
func (r *Runner) Images(ctx context.Context, cfg api.ImageConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	target, err := api.TargetFor(cfg.OutFile)
	if err != nil {
		return nil, err
	}
	if err := absPaths(&cfg.OutFile, &cfg.AssetDir, &cfg.Spritesheet, &cfg.Manifest, &cfg.Cache); err != nil {
		return nil, err
	}

	scanner, err := source.NewOSScanner(cfg.AssetDir)
	if err != nil {
		return nil, err
	}
	snap, err := scanner.Scan(cfg.Extensions, cfg.OutFile, cfg.Spritesheet, cfg.Manifest, cfg.Cache)
	if err != nil {
		return nil, err
	}
	r.Log.Info("snapshot", zap.String("root", snap.Root), zap.Int("files", snap.Len()))

	tree, err := catalog.Build(snap.Root, snap.Paths(), catalog.Single)
	if err != nil {
		return nil, err
	}
	prober := r.Prober
	if cfg.Cache != "" {
		store, err := source.OpenDiskCache(cfg.Cache)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		prober = prober.WithStore(store)
	}
	dims, err := prober.ProbeAll(ctx, snap, snap.Files())
	if err != nil {
		return nil, err
	}

	var (
		outs   []output
		frames map[string]api.Rectangle
	)
	if cfg.Spritesheet != "" {
		sheet, err := atlas.Build(tree, snap, dims, atlas.Options{
			Padding: cfg.Padding,
			Exclude: source.Exclusions(cfg.SpritesheetExclude),
		})
		if err != nil {
			return nil, err
		}
		if sheet.Len() == 0 {
			r.Log.Warn("nothing to pack, spritesheet skipped", zap.String("file", cfg.Spritesheet))
		} else {
			r.Log.Info("spritesheet packed",
				zap.Int("frames", sheet.Len()),
				zap.Int("width", sheet.Width),
				zap.Int("height", sheet.Height))
			frames = sheet.Frames
			outs = append(outs, output{cfg.Spritesheet, sheet.PNG})
			if cfg.Manifest != "" {
				image := naming.Rel(filepath.Dir(cfg.Manifest), cfg.Spritesheet)
				keyOf := func(p string) string { return naming.Rel(snap.Root, p) }
				outs = append(outs, output{cfg.Manifest, atlas.Manifest(sheet, image, keyOf)})
			}
		}
	}

	doc, err := emit.ImageDocument(emit.ImageInput{
		Tree:     tree,
		Snapshot: snap,
		Dims:     dims,
		Frames:   frames,
		Sheet:    cfg.Spritesheet,
		Imports:  emit.NewImports(snap.Root, filepath.Dir(cfg.OutFile)),
		Package:  PackageName(cfg.Package, cfg.OutFile),
	})
	if err != nil {
		return nil, err
	}
	r.logImports(doc)

	src, err := render(ctx, doc, target, cfg.OutFile)
	if err != nil {
		return nil, err
	}

	res := &Result{OutFile: cfg.OutFile, Assets: len(tree.Leaves())}
	if err := r.commit(res, nil, append(outs, output{cfg.OutFile, src})...); err != nil {
		return nil, fmt.Errorf("write texture catalog: %w", err)
	}
	r.Log.Info("texture catalog generated",
		zap.String("file", cfg.OutFile),
		zap.Int("assets", res.Assets),
		zap.Int("written", len(res.Written)))
	return res, nil
}
