// Package sdffont turns font outlines into signed distance field bitmaps
// and keeps the table of fonts a renderer can draw with.
//
// The Rasterizer interface is the capability the renderer consumes. Font
// implements it for TrueType and OpenType data using
// golang.org/x/image/font/sfnt, with kerning from the legacy kern table or,
// failing that, from GPOS through the go-text HarfBuzz shaper.
//
// All metrics are in font units unless a method takes a scale. Multiply by
// the value of ScaleForPixelHeight to get pixels.
package sdffont

// VMetrics are the vertical font metrics in font units. Descent is
// negative below the baseline.
type VMetrics struct {
	Ascent  int
	Descent int
	LineGap int
}

// HMetrics are the horizontal metrics of one glyph in font units.
type HMetrics struct {
	Advance         int
	LeftSideBearing int
}

// SDFParams control distance field generation.
//
// Padding is the number of pixels added around the glyph outline.
// OnEdgeValue is the byte written on the outline itself; values above it
// are inside. PixelDistScale is how much the value changes per pixel of
// distance.
type SDFParams struct {
	Padding        int
	OnEdgeValue    uint8
	PixelDistScale float32
}

// DefaultSDFParams returns padding 5, on-edge 180 and a distance scale of
// 180/5, so the field fades to zero at the padding border.
func DefaultSDFParams() SDFParams {
	return SDFParams{
		Padding:        5,
		OnEdgeValue:    180,
		PixelDistScale: 180.0 / 5.0,
	}
}

// Bitmap is a rasterized glyph, stored top row first.
//
// OffsetX and OffsetY place the top-left corner of the bitmap relative to
// the pen position, with y growing downward.
type Bitmap struct {
	Pix     []byte
	Width   int
	Height  int
	OffsetX int
	OffsetY int
}

// Rasterizer is a font that can produce distance fields.
//
// The Pix slice returned by GlyphSDF may be reused by the next call, so
// callers copy it before rasterizing again.
type Rasterizer interface {
	Name() string
	VMetrics() (VMetrics, error)
	ScaleForPixelHeight(px float32) float32
	HMetrics(cp rune) (HMetrics, error)
	KernAdvance(a, b rune) int
	HasGlyph(cp rune) bool
	GlyphSDF(cp rune, scale float32, p SDFParams) (Bitmap, error)
	Close() error
}
