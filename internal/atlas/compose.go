package atlas

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// Sprite is one decoded source image and the top-left corner it is drawn at.
type Sprite struct {
	Image image.Image
	X     int
	Y     int
}

// Compose draws every sprite onto a transparent canvas and encodes it as PNG.
func Compose(width, height int, sprites []Sprite) ([]byte, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, s := range sprites {
		b := s.Image.Bounds()
		dst := image.Rect(s.X, s.Y, s.X+b.Dx(), s.Y+b.Dy())
		draw.Draw(canvas, dst, s.Image, b.Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode atlas: %w", err)
	}
	return buf.Bytes(), nil
}
