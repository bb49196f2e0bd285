package atlas

import (
	"fmt"
	"image"
)

// Buffer is a single-channel 8-bit atlas image.
type Buffer struct {
	width, height int
	pix           []byte

	dirty image.Rectangle
}

// New allocates a zeroed width x height buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height),
	}, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the full buffer rectangle.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Pix returns the backing bytes, bottom row first. Callers must not modify
// them.
func (b *Buffer) Pix() []byte { return b.pix }

// At returns the value at (x, y), with y counted from the bottom.
func (b *Buffer) At(x, y int) byte {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// Blit copies a w x h bitmap, stored top row first, so that its bottom-left
// pixel lands on at. The bitmap must hold at least w*h bytes.
func (b *Buffer) Blit(at image.Point, w, h int, src []byte) error {
	if w == 0 || h == 0 {
		return nil
	}
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}
	if w < 0 || h < 0 || !r.In(b.Bounds()) {
		return fmt.Errorf("%w: %v in %v", ErrOutOfBounds, r, b.Bounds())
	}
	if len(src) < w*h {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrShortBitmap, len(src), w, h)
	}

	for row := 0; row < h; row++ {
		dstY := at.Y + h - 1 - row
		dst := b.pix[dstY*b.width+at.X:]
		copy(dst[:w], src[row*w:(row+1)*w])
	}
	b.dirty = b.dirty.Union(r)
	return nil
}

// Clear zeroes the buffer and marks all of it dirty.
func (b *Buffer) Clear() {
	clear(b.pix)
	b.dirty = b.Bounds()
}

// Dirty returns the union of regions changed since the last Sync.
func (b *Buffer) Dirty() image.Rectangle { return b.dirty }

// IsDirty reports whether anything changed since the last Sync.
func (b *Buffer) IsDirty() bool { return !b.dirty.Empty() }

// MarkDirty adds r to the dirty region, clipped to the buffer.
func (b *Buffer) MarkDirty(r image.Rectangle) {
	b.dirty = b.dirty.Union(r.Intersect(b.Bounds()))
}

// Region returns the bytes of r, bottom row first and tightly packed. The
// full buffer is returned without copying.
func (b *Buffer) Region(r image.Rectangle) []byte {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return nil
	}
	if r == b.Bounds() {
		return b.pix
	}
	w := r.Dx()
	out := make([]byte, w*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := y*b.width + r.Min.X
		copy(out[(y-r.Min.Y)*w:], b.pix[off:off+w])
	}
	return out
}
