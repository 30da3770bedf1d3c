package sound

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/remvst/asset-catalog/api"
	"go.uber.org/zap"
)

// SpriteOptions describe the sprite to encode.
type SpriteOptions struct {
	Output  string   // Base path without extension.
	Formats []string // One output file per format, e.g. ".ogg".
	Gap     float64  // Silence between entries, in seconds.
}

// Sprite is an encoded audio sprite.
type Sprite struct {
	Timings map[string]api.SpriteTiming // By sprite key.
	Files   []string                    // One per requested format, in request order.
}

// SpriteBuilder encodes the selected files into one combined sprite.
type SpriteBuilder interface {
	Build(ctx context.Context, sel []Selection, opts SpriteOptions) (*Sprite, error)
}

// Runner runs an external program and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec. Stderr is captured and attached to
// the error on failure.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return out, nil
}

var codecs = map[string]string{
	api.FormatOgg: "libvorbis",
	api.FormatMp3: "libmp3lame",
	api.FormatWav: "pcm_s16le",
}

var durationPath = jp.C("format").C("duration")

// FFmpeg builds sprites with the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	Runner  Runner
	FFmpeg  string // Default: "ffmpeg".
	FFprobe string // Default: "ffprobe".
	Log     *zap.Logger
}

// NewFFmpeg returns a builder that runs the binaries found on PATH.
func NewFFmpeg(log *zap.Logger) *FFmpeg {
	return &FFmpeg{Runner: ExecRunner{}, FFmpeg: "ffmpeg", FFprobe: "ffprobe", Log: log}
}

// Build probes every selected file, lays the files out back to back with
// opts.Gap seconds of silence in between and encodes one file per format.
func (f *FFmpeg) Build(ctx context.Context, sel []Selection, opts SpriteOptions) (*Sprite, error) {
	if len(sel) == 0 {
		return nil, fmt.Errorf("sprite %s: nothing selected", opts.Output)
	}
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}

	durations := make([]float64, len(sel))
	for i, s := range sel {
		d, err := f.duration(ctx, s.File.Path)
		if err != nil {
			return nil, &api.AssetError{
				Kind:     api.ErrDecodeFailure,
				Category: s.Group.Leaf.CategoryKey(),
				Key:      s.Group.Basename(),
				Paths:    []string{s.File.Path},
				Cause:    err,
			}
		}
		durations[i] = d
	}

	sprite := &Sprite{Timings: Timings(sel, durations, opts.Gap)}
	inputs := make([]string, len(sel))
	for i, s := range sel {
		inputs[i] = s.File.Path
	}
	for _, format := range opts.Formats {
		codec, ok := codecs[format]
		if !ok {
			return nil, fmt.Errorf("sprite %s: unsupported format %q", opts.Output, format)
		}
		out := opts.Output + format
		if _, err := f.Runner.Run(ctx, f.bin(f.FFmpeg, "ffmpeg"), ConcatArgs(inputs, opts.Gap, codec, out)...); err != nil {
			return nil, fmt.Errorf("encode sprite %s: %w", out, err)
		}
		log.Debug("sprite encoded", zap.String("file", out), zap.Int("entries", len(sel)))
		sprite.Files = append(sprite.Files, out)
	}
	return sprite, nil
}

func (f *FFmpeg) duration(ctx context.Context, file string) (float64, error) {
	out, err := f.Runner.Run(ctx, f.bin(f.FFprobe, "ffprobe"),
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		file,
	)
	if err != nil {
		return 0, err
	}
	return ParseDuration(out)
}

func (f *FFmpeg) bin(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// ParseDuration reads format.duration from ffprobe JSON output.
func ParseDuration(data []byte) (float64, error) {
	doc, err := oj.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	var d float64
	switch v := durationPath.First(doc).(type) {
	case string:
		if d, err = strconv.ParseFloat(v, 64); err != nil {
			return 0, fmt.Errorf("ffprobe duration %q: %w", v, err)
		}
	case float64:
		d = v
	case int64:
		d = float64(v)
	default:
		return 0, fmt.Errorf("ffprobe output has no format.duration")
	}
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("ffprobe duration %v is not positive", d)
	}
	return d, nil
}

// Timings places each selection after the previous one plus gap. Offsets are
// rounded to the millisecond.
func Timings(sel []Selection, durations []float64, gap float64) map[string]api.SpriteTiming {
	out := make(map[string]api.SpriteTiming, len(sel))
	cursor := 0.0
	for i, s := range sel {
		out[s.Key()] = api.SpriteTiming{
			Start: roundMillis(cursor),
			End:   roundMillis(cursor + durations[i]),
		}
		cursor += durations[i] + gap
	}
	return out
}

func roundMillis(v float64) float64 { return math.Round(v*1000) / 1000 }

// ConcatArgs returns the ffmpeg arguments that resample every input to
// 44.1kHz stereo, append gap seconds of silence to all but the last and
// concatenate them into out.
func ConcatArgs(inputs []string, gap float64, codec, out string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	var filter strings.Builder
	for i := range inputs {
		fmt.Fprintf(&filter, "[%d:a]aformat=sample_fmts=fltp:sample_rates=44100:channel_layouts=stereo", i)
		if i < len(inputs)-1 && gap > 0 {
			fmt.Fprintf(&filter, ",apad=pad_dur=%s", strconv.FormatFloat(gap, 'f', -1, 64))
		}
		fmt.Fprintf(&filter, "[a%d];", i)
	}
	for i := range inputs {
		fmt.Fprintf(&filter, "[a%d]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=0:a=1[out]", len(inputs))
	return append(args, "-filter_complex", filter.String(), "-map", "[out]", "-c:a", codec, out)
}
