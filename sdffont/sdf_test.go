package sdffont

import (
	"testing"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func TestGlyphSDFShape(t *testing.T) {
	f := loadGoRegular(t)
	p := DefaultSDFParams()
	scale := f.ScaleForPixelHeight(48)

	bm, err := f.GlyphSDF('I', scale, p)
	if err != nil {
		t.Fatalf("GlyphSDF('I') error: %v", err)
	}
	if bm.Width <= 2*p.Padding || bm.Height <= 2*p.Padding {
		t.Fatalf("bitmap %dx%d is not larger than its padding", bm.Width, bm.Height)
	}
	if len(bm.Pix) != bm.Width*bm.Height {
		t.Fatalf("len(Pix) = %d, want %d", len(bm.Pix), bm.Width*bm.Height)
	}

	inside := 0
	for _, v := range bm.Pix {
		if v > p.OnEdgeValue {
			inside++
		}
	}
	if inside == 0 {
		t.Error("no pixel is inside the outline")
	}

	// The padding band fades out toward the border.
	for x := 0; x < bm.Width; x++ {
		if v := bm.Pix[x]; v > 20 {
			t.Errorf("top border pixel %d = %d, want <= 20", x, v)
		}
		if v := bm.Pix[(bm.Height-1)*bm.Width+x]; v > 20 {
			t.Errorf("bottom border pixel %d = %d, want <= 20", x, v)
		}
	}

	// Cap height sits above the baseline, y down.
	if bm.OffsetY >= 0 || bm.OffsetY+bm.Height <= 0 {
		t.Errorf("OffsetY = %d, Height = %d: bitmap should straddle the baseline", bm.OffsetY, bm.Height)
	}
}

func TestGlyphSDFEmptyGlyph(t *testing.T) {
	f := loadGoRegular(t)
	bm, err := f.GlyphSDF(' ', f.ScaleForPixelHeight(32), DefaultSDFParams())
	if err != nil {
		t.Fatalf("GlyphSDF(' ') error: %v", err)
	}
	if bm.Width != 0 || bm.Height != 0 || len(bm.Pix) != 0 {
		t.Errorf("space rasterized to %dx%d", bm.Width, bm.Height)
	}

	bm, err = f.GlyphSDF('a', 0, DefaultSDFParams())
	if err != nil || bm.Width != 0 {
		t.Errorf("zero scale = %dx%d, %v", bm.Width, bm.Height, err)
	}
}

func TestGlyphSDFGrowsWithScale(t *testing.T) {
	f := loadGoRegular(t)
	p := DefaultSDFParams()
	small, err := f.GlyphSDF('g', f.ScaleForPixelHeight(16), p)
	if err != nil {
		t.Fatal(err)
	}
	sw, sh := small.Width, small.Height
	large, err := f.GlyphSDF('g', f.ScaleForPixelHeight(64), p)
	if err != nil {
		t.Fatal(err)
	}
	if large.Width <= sw || large.Height <= sh {
		t.Errorf("64px %dx%d not larger than 16px %dx%d", large.Width, large.Height, sw, sh)
	}
}

func square(x0, y0, x1, y1 int) []sfnt.Segment {
	pt := func(x, y int) fixed.Point26_6 { return fixed.P(x, y) }
	return []sfnt.Segment{
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{pt(x0, y0)}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(x1, y0)}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(x1, y1)}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(x0, y1)}},
	}
}

func TestFlattenClosesContours(t *testing.T) {
	edges := flatten(nil, square(0, 0, 4, 4), 1, 1)
	if len(edges) != 4 {
		t.Fatalf("flatten() produced %d edges, want 4", len(edges))
	}
	last := edges[3]
	if last.x1 != 1 || last.y1 != 1 {
		t.Errorf("closing edge ends at (%v, %v), want (1, 1)", last.x1, last.y1)
	}

	minX, minY, maxX, maxY := segmentBounds(square(2, 3, 7, 9))
	if minX != 2 || minY != 3 || maxX != 7 || maxY != 9 {
		t.Errorf("segmentBounds() = %v %v %v %v", minX, minY, maxX, maxY)
	}
}

func TestFlattenQuadSubdivides(t *testing.T) {
	segs := []sfnt.Segment{
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{fixed.P(0, 0)}},
		{Op: sfnt.SegmentOpQuadTo, Args: [3]fixed.Point26_6{fixed.P(10, 20), fixed.P(20, 0)}},
	}
	edges := flatten(nil, segs, 0, 0)
	if len(edges) < 4 {
		t.Errorf("deep quad flattened to %d edges, want several", len(edges))
	}
}

func TestMinDistSq(t *testing.T) {
	edges := flatten(nil, square(0, 0, 10, 10), 0, 0)
	tests := []struct {
		x, y float32
		want float32
	}{
		{5, 5, 25},
		{-3, 5, 9},
		{13, 14, 25},
		{2, 1, 1},
	}
	for _, tt := range tests {
		if got := minDistSq(tt.x, tt.y, edges); got != tt.want {
			t.Errorf("minDistSq(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   float32
		want byte
	}{
		{-40, 0}, {0, 0}, {179.6, 180}, {255, 255}, {900, 255},
	}
	for _, tt := range tests {
		if got := clampByte(tt.in); got != tt.want {
			t.Errorf("clampByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
