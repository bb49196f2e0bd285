package atlas

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// Image returns a copy of the buffer as a top-down grayscale image, the
// orientation image viewers expect.
func (b *Buffer) Image() *image.Gray {
	img := image.NewGray(b.Bounds())
	for y := 0; y < b.height; y++ {
		src := b.pix[y*b.width : (y+1)*b.width]
		dst := img.Pix[(b.height-1-y)*img.Stride:]
		copy(dst[:b.width], src)
	}
	return img
}

// WritePNG encodes the buffer as a grayscale PNG.
func (b *Buffer) WritePNG(w io.Writer) error {
	if err := png.Encode(w, b.Image()); err != nil {
		return fmt.Errorf("atlas: encode png: %w", err)
	}
	return nil
}
