package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/remvst/asset-catalog/api"
)

// fileConfig is the optional HCL config file:
//
//	images {
//	  out_file    = "src/textures.ts"
//	  asset_dir   = "assets/images"
//	  spritesheet = "assets/atlas.png"
//	}
//
//	sounds {
//	  asset_dir = "assets/sounds"
//	  wav       = true
//	}
//
// Relative paths are resolved against the directory holding the file.
type fileConfig struct {
	Images *imageBlock `hcl:"images,block"`
	Sounds *soundBlock `hcl:"sounds,block"`
}

// Pointer fields tell an absent attribute from a zero value.
type imageBlock struct {
	OutFile            *string  `hcl:"out_file,optional"`
	AssetDir           *string  `hcl:"asset_dir,optional"`
	Spritesheet        *string  `hcl:"spritesheet,optional"`
	SpritesheetExclude []string `hcl:"spritesheet_exclude,optional"`
	Manifest           *string  `hcl:"manifest,optional"`
	Padding            *int     `hcl:"padding,optional"`
	Extensions         []string `hcl:"extensions,optional"`
	Package            *string  `hcl:"package,optional"`
	Cache              *string  `hcl:"cache,optional"`
}

type soundBlock struct {
	OutFile       *string  `hcl:"out_file,optional"`
	AssetDir      *string  `hcl:"asset_dir,optional"`
	Ogg           *bool    `hcl:"ogg,optional"`
	Mp3           *bool    `hcl:"mp3,optional"`
	Wav           *bool    `hcl:"wav,optional"`
	Sprite        *string  `hcl:"sprite,optional"`
	SpriteExclude []string `hcl:"sprite_exclude,optional"`
	SpriteFormats []string `hcl:"sprite_formats,optional"`
	SpriteSources []string `hcl:"sprite_sources,optional"`
	SpriteGap     *float64 `hcl:"sprite_gap,optional"`
	Package       *string  `hcl:"package,optional"`
}

// loadConfig reads path. An empty path yields an empty config.
func loadConfig(path string) (*fileConfig, error) {
	fc := &fileConfig{}
	if path == "" {
		return fc, nil
	}
	if err := hclsimple.DecodeFile(path, nil, fc); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	fc.resolve(filepath.Dir(path))
	return fc, nil
}

func (fc *fileConfig) resolve(dir string) {
	rel := func(p *string) {
		if p != nil && *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	if b := fc.Images; b != nil {
		rel(b.OutFile)
		rel(b.AssetDir)
		rel(b.Spritesheet)
		rel(b.Manifest)
		rel(b.Cache)
	}
	if b := fc.Sounds; b != nil {
		rel(b.OutFile)
		rel(b.AssetDir)
		rel(b.Sprite)
	}
}

// images overlays the images block on cfg.
func (fc *fileConfig) images(cfg *api.ImageConfig) {
	b := fc.Images
	if b == nil {
		return
	}
	set(&cfg.OutFile, b.OutFile)
	set(&cfg.AssetDir, b.AssetDir)
	set(&cfg.Spritesheet, b.Spritesheet)
	set(&cfg.Manifest, b.Manifest)
	set(&cfg.Padding, b.Padding)
	set(&cfg.Package, b.Package)
	set(&cfg.Cache, b.Cache)
	if b.SpritesheetExclude != nil {
		cfg.SpritesheetExclude = b.SpritesheetExclude
	}
	if b.Extensions != nil {
		cfg.Extensions = b.Extensions
	}
}

// sounds overlays the sounds block on cfg.
func (fc *fileConfig) sounds(cfg *api.SoundConfig) {
	b := fc.Sounds
	if b == nil {
		return
	}
	set(&cfg.OutFile, b.OutFile)
	set(&cfg.AssetDir, b.AssetDir)
	set(&cfg.Ogg, b.Ogg)
	set(&cfg.Mp3, b.Mp3)
	set(&cfg.Wav, b.Wav)
	set(&cfg.Sprite, b.Sprite)
	set(&cfg.SpriteGap, b.SpriteGap)
	set(&cfg.Package, b.Package)
	if b.SpriteExclude != nil {
		cfg.SpriteExclude = b.SpriteExclude
	}
	if b.SpriteFormats != nil {
		cfg.SpriteFormats = b.SpriteFormats
	}
	if b.SpriteSources != nil {
		cfg.SpriteSources = b.SpriteSources
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
