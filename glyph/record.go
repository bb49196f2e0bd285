package glyph

import "github.com/go-gl/mathgl/mgl32"

// Record is a rasterized glyph and its place in the atlas.
//
// Width and Height are the SDF bitmap dimensions. OffsetX and OffsetY
// position the bitmap relative to the pen on the baseline, with y up.
// UVBottomLeft and UVTopRight are zero until the glyph has been placed.
type Record struct {
	Codepoint rune
	Scale     float32

	Width, Height    int
	OffsetX, OffsetY int

	// Advance is the horizontal advance in font units.
	Advance int

	UVBottomLeft mgl32.Vec2
	UVTopRight   mgl32.Vec2

	// Placed is false when the atlas had no room for the glyph.
	Placed bool

	// SDF is owned by the record.
	SDF []byte
}

// Empty reports whether the glyph has no visible pixels, as for a space.
func (r *Record) Empty() bool {
	return r.Width == 0 || r.Height == 0
}
