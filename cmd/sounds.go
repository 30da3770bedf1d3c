package cmd

import (
	"context"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/generate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type soundOpts struct {
	outFile       string
	assetDir      string
	ogg, mp3, wav bool
	sprite        string
	spriteExclude []string
	spriteFormats []string
	spriteSources []string
	spriteGap     float64
	pkg           string
	watch         bool
}

var soundFlags soundOpts

func (o *soundOpts) bind(fs *pflag.FlagSet) {
	def := api.DefaultSoundConfig()
	fs.StringVarP(&o.outFile, "outFile", "o", def.OutFile, "Generated catalog (.ts, .tsx or .go)")
	fs.StringVarP(&o.assetDir, "assetDir", "a", def.AssetDir, "Asset directory where the sounds are located")
	fs.BoolVar(&o.ogg, "ogg", def.Ogg, "Include .ogg files")
	fs.BoolVar(&o.mp3, "mp3", def.Mp3, "Include .mp3 files")
	fs.BoolVar(&o.wav, "wav", def.Wav, "Include .wav files")
	fs.StringVar(&o.sprite, "sprite", "", "Encode an audio sprite at this path (without extension)")
	fs.StringArrayVar(&o.spriteExclude, "spriteExclude", nil, "Keep matching categories out of the sprite (repeatable)")
	fs.StringArrayVar(&o.spriteFormats, "spriteFormat", nil, "Sprite output format (default: the enabled formats; repeatable)")
	fs.StringArrayVar(&o.spriteSources, "spriteSource", nil, "Only feed files of this format to the sprite encoder (repeatable)")
	fs.Float64Var(&o.spriteGap, "spriteGap", def.SpriteGap, "Silence between sprite entries, in seconds")
	fs.StringVar(&o.pkg, "package", "", "Package clause of Go output (default: output directory name)")
	fs.BoolVar(&o.watch, "watch", false, "Regenerate whenever the asset directory changes")
}

// apply copies the flags set on the command line into cfg.
func (o *soundOpts) apply(fs *pflag.FlagSet, cfg *api.SoundConfig) {
	if fs.Changed("outFile") {
		cfg.OutFile = o.outFile
	}
	if fs.Changed("assetDir") {
		cfg.AssetDir = o.assetDir
	}
	if fs.Changed("ogg") {
		cfg.Ogg = o.ogg
	}
	if fs.Changed("mp3") {
		cfg.Mp3 = o.mp3
	}
	if fs.Changed("wav") {
		cfg.Wav = o.wav
	}
	if fs.Changed("sprite") {
		cfg.Sprite = o.sprite
	}
	if fs.Changed("spriteExclude") {
		cfg.SpriteExclude = o.spriteExclude
	}
	if fs.Changed("spriteFormat") {
		cfg.SpriteFormats = o.spriteFormats
	}
	if fs.Changed("spriteSource") {
		cfg.SpriteSources = o.spriteSources
	}
	if fs.Changed("spriteGap") {
		cfg.SpriteGap = o.spriteGap
	}
	if fs.Changed("package") {
		cfg.Package = o.pkg
	}
}

var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "Generate a sound catalog, optionally encoding an audio sprite",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg := api.DefaultSoundConfig()
		fc.sounds(&cfg)
		soundFlags.apply(cmd.Flags(), &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		runner, err := generate.NewRunner(logger)
		if err != nil {
			return err
		}
		build := func(ctx context.Context) error {
			_, err := runner.Sounds(ctx, cfg)
			return err
		}
		if !soundFlags.watch {
			return build(cmd.Context())
		}
		ignore := []string{cfg.OutFile}
		for _, format := range cfg.SpriteFormats {
			if cfg.Sprite != "" {
				ignore = append(ignore, cfg.Sprite+format)
			}
		}
		return watchAndBuild(cmd.Context(), cfg.AssetDir, build, ignore...)
	},
}

func init() {
	soundFlags.bind(soundsCmd.Flags())
	rootCmd.AddCommand(soundsCmd)
}
