package sdftext

import "github.com/go-gl/mathgl/mgl32"

// Style controls how RenderText draws a string.
//
// Threshold is the distance field value treated as the glyph edge, in
// [0, 1]. The shadow quad uses a smooth ramp between
// ShadowThresholdBottom and ShadowThresholdTop, which widens and softens
// it compared to the glyph itself.
type Style struct {
	// Scale multiplies glyph size and pen advance.
	Scale float32
	// Color is the straight-alpha RGBA text color.
	Color     mgl32.Vec4
	Threshold float32

	Shadow                bool
	ShadowColor           mgl32.Vec4
	ShadowThresholdBottom float32
	ShadowThresholdTop    float32
	// ShadowOffset moves the shadow quad, in pixels before Scale.
	ShadowOffset mgl32.Vec2
}

// DefaultStyle returns white text at scale 1 with a faint black shadow.
func DefaultStyle() Style {
	return Style{
		Scale:                 1,
		Color:                 mgl32.Vec4{1, 1, 1, 1},
		Threshold:             0.7,
		Shadow:                true,
		ShadowColor:           mgl32.Vec4{0, 0, 0, 100.0 / 255.0},
		ShadowThresholdBottom: 0.4,
		ShadowThresholdTop:    0.7,
	}
}
