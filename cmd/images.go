package cmd

import (
	"context"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/generate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type imageOpts struct {
	outFile     string
	assetDir    string
	spritesheet string
	exclude     []string
	manifest    string
	padding     int
	extensions  []string
	pkg         string
	cache       string
	watch       bool
}

var imageFlags imageOpts

func (o *imageOpts) bind(fs *pflag.FlagSet) {
	def := api.DefaultImageConfig()
	fs.StringVarP(&o.outFile, "outFile", "o", def.OutFile, "Generated catalog (.ts, .tsx or .go)")
	fs.StringVarP(&o.assetDir, "assetDir", "a", def.AssetDir, "Asset directory where the images are located")
	fs.StringVarP(&o.spritesheet, "outSpritesheet", "s", "", "Pack images into this PNG spritesheet")
	fs.StringArrayVarP(&o.exclude, "spritesheetExclude", "x", nil, "Keep matching paths out of the spritesheet (substring or glob, repeatable)")
	fs.StringVarP(&o.manifest, "manifest", "m", "", "Write a JSON frame manifest for the spritesheet")
	fs.IntVar(&o.padding, "padding", def.Padding, "Transparent margin around each packed image, in pixels")
	fs.StringArrayVar(&o.extensions, "ext", def.Extensions, "Image extension to include (png, jpg, jpeg, gif; repeatable)")
	fs.StringVar(&o.pkg, "package", "", "Package clause of Go output (default: output directory name)")
	fs.StringVar(&o.cache, "cache", "", "SQLite file remembering image sizes between runs")
	fs.BoolVar(&o.watch, "watch", false, "Regenerate whenever the asset directory changes")
}

// apply copies the flags set on the command line into cfg.
func (o *imageOpts) apply(fs *pflag.FlagSet, cfg *api.ImageConfig) {
	if fs.Changed("outFile") {
		cfg.OutFile = o.outFile
	}
	if fs.Changed("assetDir") {
		cfg.AssetDir = o.assetDir
	}
	if fs.Changed("outSpritesheet") {
		cfg.Spritesheet = o.spritesheet
	}
	if fs.Changed("spritesheetExclude") {
		cfg.SpritesheetExclude = o.exclude
	}
	if fs.Changed("manifest") {
		cfg.Manifest = o.manifest
	}
	if fs.Changed("padding") {
		cfg.Padding = o.padding
	}
	if fs.Changed("ext") {
		cfg.Extensions = o.extensions
	}
	if fs.Changed("package") {
		cfg.Package = o.pkg
	}
	if fs.Changed("cache") {
		cfg.Cache = o.cache
	}
}

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Generate a texture catalog, optionally packing a spritesheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg := api.DefaultImageConfig()
		fc.images(&cfg)
		imageFlags.apply(cmd.Flags(), &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		runner, err := generate.NewRunner(logger)
		if err != nil {
			return err
		}
		build := func(ctx context.Context) error {
			_, err := runner.Images(ctx, cfg)
			return err
		}
		if !imageFlags.watch {
			return build(cmd.Context())
		}
		return watchAndBuild(cmd.Context(), cfg.AssetDir, build, cfg.OutFile, cfg.Spritesheet, cfg.Manifest, cfg.Cache)
	},
}

func init() {
	imageFlags.bind(imagesCmd.Flags())
	rootCmd.AddCommand(imagesCmd)
}
