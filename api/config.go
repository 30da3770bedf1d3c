package api

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Audio formats understood by the sound catalog, as file extensions.
const (
	FormatOgg = ".ogg"
	FormatMp3 = ".mp3"
	FormatWav = ".wav"
)

// ImageConfig is the resolved configuration of one texture catalog run.
// It is populated by [DefaultImageConfig] and then overridden by the
// config file and command-line flags.
type ImageConfig struct {
	OutFile  string // Generated source file. Extension selects the Target.
	AssetDir string // Root of the asset tree.

	// Spritesheet is the path of the packed atlas PNG. Empty disables packing.
	Spritesheet        string
	SpritesheetExclude []string // Paths matching any entry stay out of the atlas.
	Manifest           string   // Optional JSON frame manifest next to the atlas.
	Padding            int      // Default: 1. Margin around each packed frame.

	Extensions []string // Default: [".png"].
	Package    string   // Package clause for Go output. Default: output dir name.

	// Cache is an optional SQLite file remembering image headers between
	// runs. Empty keeps headers in memory only.
	Cache string
}

// DefaultImageConfig returns the command-line defaults.
func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		OutFile:    "textures.ts",
		AssetDir:   ".",
		Padding:    1,
		Extensions: []string{".png"},
	}
}

// Validate checks field values and normalizes extensions to lowercase with
// a leading dot.
func (c *ImageConfig) Validate() error {
	if c.AssetDir == "" {
		return errors.New("asset directory must not be empty")
	}
	if _, err := TargetFor(c.OutFile); err != nil {
		return err
	}
	if c.Padding < 0 {
		return fmt.Errorf("invalid padding %d (must be >= 0)", c.Padding)
	}
	if c.Manifest != "" && c.Spritesheet == "" {
		return errors.New("manifest requires a spritesheet path")
	}
	if len(c.Extensions) == 0 {
		return errors.New("at least one image extension is required")
	}
	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = normalizeExt(ext)
		switch ext {
		case ".png", ".jpg", ".jpeg", ".gif":
		default:
			return fmt.Errorf("unsupported image extension %q (use png, jpg, jpeg or gif)", ext)
		}
		exts = append(exts, ext)
	}
	c.Extensions = exts
	return nil
}

// SoundConfig is the resolved configuration of one sound catalog run.
type SoundConfig struct {
	OutFile  string
	AssetDir string

	// Format toggles. Default: ogg and mp3 enabled, wav disabled.
	Ogg bool
	Mp3 bool
	Wav bool

	// Sprite is the output path of the combined audio sprite without
	// extension. Empty disables sprite building.
	Sprite        string
	SpriteExclude []string // Category filters; matching groups stay out of the sprite.
	SpriteFormats []string // Export formats. Default: the enabled formats.
	SpriteGap     float64  // Default: 1. Silence between sprite entries, in seconds.
	// SpriteSources restricts which files may feed the sprite encoder.
	// Empty accepts every format.
	SpriteSources []string

	Package string
}

// DefaultSoundConfig returns the command-line defaults.
func DefaultSoundConfig() SoundConfig {
	return SoundConfig{
		OutFile:   "sounds.ts",
		AssetDir:  ".",
		Ogg:       true,
		Mp3:       true,
		Wav:       false,
		SpriteGap: 1,
	}
}

// Extensions returns the enabled formats in discovery-filter order.
func (c *SoundConfig) Extensions() []string {
	var exts []string
	if c.Mp3 {
		exts = append(exts, FormatMp3)
	}
	if c.Ogg {
		exts = append(exts, FormatOgg)
	}
	if c.Wav {
		exts = append(exts, FormatWav)
	}
	return exts
}

// Validate checks field values. When a sprite is requested without explicit
// export formats, the enabled formats are used.
func (c *SoundConfig) Validate() error {
	if c.AssetDir == "" {
		return errors.New("asset directory must not be empty")
	}
	if _, err := TargetFor(c.OutFile); err != nil {
		return err
	}
	if len(c.Extensions()) == 0 {
		return errors.New("no audio format enabled (use --ogg, --mp3 or --wav)")
	}
	if c.SpriteGap < 0 {
		return fmt.Errorf("invalid sprite gap %v (must be >= 0)", c.SpriteGap)
	}
	if c.Sprite == "" {
		return nil
	}
	if len(c.SpriteFormats) == 0 {
		c.SpriteFormats = c.Extensions()
	}
	var err error
	if c.SpriteFormats, err = audioFormats("sprite format", c.SpriteFormats); err != nil {
		return err
	}
	c.SpriteSources, err = audioFormats("sprite source", c.SpriteSources)
	return err
}

func audioFormats(what string, in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(in))
	for _, f := range in {
		f = normalizeExt(f)
		switch f {
		case FormatOgg, FormatMp3, FormatWav:
		default:
			return nil, fmt.Errorf("unsupported %s %q (use ogg, mp3 or wav)", what, f)
		}
		out = append(out, f)
	}
	return out, nil
}

// TargetFor selects the output language from a generated file's extension.
func TargetFor(outFile string) (Target, error) {
	if outFile == "" {
		return "", errors.New("output file must not be empty")
	}
	switch strings.ToLower(filepath.Ext(outFile)) {
	case ".ts", ".tsx":
		return TargetTypeScript, nil
	case ".go":
		return TargetGo, nil
	default:
		return "", fmt.Errorf("unsupported output file %q (use .ts, .tsx or .go)", outFile)
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
