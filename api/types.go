package api

// Rectangle is a pixel region inside an image. Frames produced by the atlas
// packer always have Width and Height greater than zero.
type Rectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SpriteData locates one image inside a packed spritesheet.
type SpriteData struct {
	// Sheet is the identifier of the imported spritesheet file.
	Sheet string    `json:"sheet"`
	Frame Rectangle `json:"frame"`
}

// SpriteTiming addresses one sound inside a combined audio sprite.
// Offsets are in seconds.
type SpriteTiming struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Loop  bool    `json:"loop"`
}

// Target is the language a catalog is rendered in.
type Target string

const (
	TargetTypeScript Target = "typescript"
	TargetGo         Target = "go"
)
