package gpu

import (
	"fmt"
	"image"
)

// PixelFormat is the texel layout of an atlas texture.
type PixelFormat int

const (
	// FormatR8 is one unsigned normalized byte per texel.
	FormatR8 PixelFormat = iota
	// FormatRGBA8 is four unsigned normalized bytes per texel.
	FormatRGBA8
)

// BytesPerPixel returns the texel size in bytes.
func (f PixelFormat) BytesPerPixel() int {
	if f == FormatRGBA8 {
		return 4
	}
	return 1
}

func (f PixelFormat) String() string {
	switch f {
	case FormatR8:
		return "R8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// Texture is an atlas texture owned by a Device.
type Texture interface {
	Size() (width, height int)
	Format() PixelFormat
}

// Target is something a Device can draw into.
type Target interface {
	Size() (width, height int)
}

// Device creates atlas textures and draws instanced glyph quads.
type Device interface {
	// CreateAtlasTexture allocates a zeroed texture.
	CreateAtlasTexture(width, height int, format PixelFormat) (Texture, error)

	// UpdateTextureRegion replaces the texels of the size.X x size.Y region
	// at origin. pix holds the region's rows tightly packed, lowest row
	// first.
	UpdateTextureRegion(tex Texture, origin, size image.Point, pix []byte) error

	// DrawInstances draws every batch in order over target, sampling atlas.
	// Later batches draw on top of earlier ones.
	DrawInstances(target Target, atlas Texture, batches ...[]Instance) error

	// DestroyTexture releases tex. Destroying twice is a no-op.
	DestroyTexture(tex Texture)
}

// checkRegion validates an update against a texture's bounds and data.
func checkRegion(w, h, bpp int, origin, size image.Point, pix []byte) error {
	r := image.Rectangle{Min: origin, Max: origin.Add(size)}
	if size.X <= 0 || size.Y <= 0 || !r.In(image.Rect(0, 0, w, h)) {
		return fmt.Errorf("%w: %v in %dx%d", ErrRegionOutOfBounds, r, w, h)
	}
	if need := size.X * size.Y * bpp; len(pix) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrShortData, len(pix), need)
	}
	return nil
}
