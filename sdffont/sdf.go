package sdffont

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// GlyphSDF rasterizes cp at scale into a signed distance field.
//
// Each pixel holds p.OnEdgeValue plus the signed distance to the outline
// times p.PixelDistScale, clamped to a byte, positive inside the glyph. The
// bitmap is padded by p.Padding pixels on every side. Glyphs without an
// outline, such as a space, return a zero-size bitmap and no error.
//
// The returned Pix is valid until the next call to GlyphSDF.
func (f *Font) GlyphSDF(cp rune, scale float32, p SDFParams) (Bitmap, error) {
	if f.closed {
		return Bitmap{}, ErrClosed
	}
	if scale <= 0 {
		return Bitmap{}, nil
	}
	gid, err := f.font.GlyphIndex(&f.buf, cp)
	if err != nil {
		return Bitmap{}, fmt.Errorf("sdffont: glyph index %U: %w", cp, err)
	}

	ppem := fixed.Int26_6(scale*float32(f.upem)*64 + 0.5)
	segs, err := f.font.LoadGlyph(&f.buf, gid, ppem, nil)
	if err != nil {
		return Bitmap{}, fmt.Errorf("sdffont: load glyph %U: %w", cp, err)
	}
	if len(segs) == 0 {
		return Bitmap{}, nil
	}

	minX, minY, maxX, maxY := segmentBounds(segs)
	x0, y0 := int(math.Floor(float64(minX))), int(math.Floor(float64(minY)))
	x1, y1 := int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY)))
	if x1 <= x0 || y1 <= y0 {
		return Bitmap{}, nil
	}

	pad := max(p.Padding, 0)
	w := x1 - x0 + 2*pad
	h := y1 - y0 + 2*pad
	offX, offY := x0-pad, y0-pad
	dx, dy := -float32(offX), -float32(offY)

	f.edges = flatten(f.edges[:0], segs, dx, dy)
	mask := f.coverage(segs, w, h, dx, dy)

	if cap(f.pix) < w*h {
		f.pix = make([]byte, w*h)
	}
	pix := f.pix[:w*h]
	fillDistanceField(pix, w, h, f.edges, mask, p)

	slogger().Debug("sdffont: glyph rasterized",
		"codepoint", cp, "scale", scale, "width", w, "height", h, "edges", len(f.edges))

	return Bitmap{Pix: pix, Width: w, Height: h, OffsetX: offX, OffsetY: offY}, nil
}

// coverage fills the outline into a w x h alpha mask. The nonzero winding
// result decides which pixels are inside.
func (f *Font) coverage(segs []sfnt.Segment, w, h int, dx, dy float32) *image.Alpha {
	if f.raster == nil {
		f.raster = vector.NewRasterizer(w, h)
	} else {
		f.raster.Reset(w, h)
	}
	f.raster.DrawOp = draw.Src

	if f.mask == nil || cap(f.mask.Pix) < w*h {
		f.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	} else {
		f.mask.Pix = f.mask.Pix[:w*h]
		f.mask.Stride = w
		f.mask.Rect = image.Rect(0, 0, w, h)
	}

	r := f.raster
	open := false
	for _, s := range segs {
		a := s.Args
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.ClosePath()
			}
			p := fixedPoint(a[0], dx, dy)
			r.MoveTo(p.x, p.y)
			open = true
		case sfnt.SegmentOpLineTo:
			p := fixedPoint(a[0], dx, dy)
			r.LineTo(p.x, p.y)
		case sfnt.SegmentOpQuadTo:
			c, p := fixedPoint(a[0], dx, dy), fixedPoint(a[1], dx, dy)
			r.QuadTo(c.x, c.y, p.x, p.y)
		case sfnt.SegmentOpCubeTo:
			c1, c2, p := fixedPoint(a[0], dx, dy), fixedPoint(a[1], dx, dy), fixedPoint(a[2], dx, dy)
			r.CubeTo(c1.x, c1.y, c2.x, c2.y, p.x, p.y)
		}
	}
	if open {
		r.ClosePath()
	}
	r.Draw(f.mask, f.mask.Bounds(), image.Opaque, image.Point{})
	return f.mask
}

// fillDistanceField writes the distance value of every pixel center.
func fillDistanceField(pix []byte, w, h int, edges []edge, mask *image.Alpha, p SDFParams) {
	onEdge := float32(p.OnEdgeValue)
	for y := 0; y < h; y++ {
		cy := float32(y) + 0.5
		for x := 0; x < w; x++ {
			cx := float32(x) + 0.5
			d := float32(math.Sqrt(float64(minDistSq(cx, cy, edges))))
			if mask.Pix[y*mask.Stride+x] < 0x80 {
				d = -d
			}
			v := onEdge + d*p.PixelDistScale
			pix[y*w+x] = clampByte(v)
		}
	}
}

// minDistSq returns the squared distance from (px, py) to the nearest edge.
func minDistSq(px, py float32, edges []edge) float32 {
	best := float32(math.MaxFloat32)
	for _, e := range edges {
		ex, ey := e.x1-e.x0, e.y1-e.y0
		vx, vy := px-e.x0, py-e.y0
		l2 := ex*ex + ey*ey
		t := float32(0)
		if l2 > 0 {
			t = min(max((vx*ex+vy*ey)/l2, 0), 1)
		}
		qx, qy := vx-t*ex, vy-t*ey
		if d := qx*qx + qy*qy; d < best {
			best = d
		}
	}
	return best
}

func clampByte(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v + 0.5)
	}
}
