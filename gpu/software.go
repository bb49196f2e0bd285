package gpu

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// ImageTarget is a CPU render target. Screen row 0 is the bottom row of
// the image.
type ImageTarget struct {
	*image.RGBA
}

// NewImageTarget returns a transparent width x height target.
func NewImageTarget(width, height int) *ImageTarget {
	return &ImageTarget{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Size returns the target dimensions.
func (t *ImageTarget) Size() (width, height int) {
	b := t.Bounds()
	return b.Dx(), b.Dy()
}

// Fill sets every pixel to c.
func (t *ImageTarget) Fill(c color.RGBA) {
	for i := 0; i < len(t.Pix); i += 4 {
		t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// softwareTexture is a texture held in memory, lowest row first.
type softwareTexture struct {
	width, height int
	format        PixelFormat
	pix           []byte
	destroyed     bool
}

func (t *softwareTexture) Size() (int, int)    { return t.width, t.height }
func (t *softwareTexture) Format() PixelFormat { return t.format }

// SoftwareDevice is a Device that shades glyph quads on the CPU.
type SoftwareDevice struct {
	uploads int
}

// NewSoftwareDevice returns a software device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// Uploads returns how many region updates the device has applied.
func (d *SoftwareDevice) Uploads() int { return d.uploads }

// CreateAtlasTexture implements Device.
func (d *SoftwareDevice) CreateAtlasTexture(width, height int, format PixelFormat) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &softwareTexture{
		width:  width,
		height: height,
		format: format,
		pix:    make([]byte, width*height*format.BytesPerPixel()),
	}, nil
}

func (d *SoftwareDevice) texture(tex Texture) (*softwareTexture, error) {
	st, ok := tex.(*softwareTexture)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if st.destroyed {
		return nil, ErrTextureDestroyed
	}
	return st, nil
}

// UpdateTextureRegion implements Device.
func (d *SoftwareDevice) UpdateTextureRegion(tex Texture, origin, size image.Point, pix []byte) error {
	st, err := d.texture(tex)
	if err != nil {
		return err
	}
	bpp := st.format.BytesPerPixel()
	if err := checkRegion(st.width, st.height, bpp, origin, size, pix); err != nil {
		return err
	}
	rowBytes := size.X * bpp
	for y := 0; y < size.Y; y++ {
		dst := ((origin.Y+y)*st.width + origin.X) * bpp
		copy(st.pix[dst:dst+rowBytes], pix[y*rowBytes:])
	}
	d.uploads++
	return nil
}

// DestroyTexture implements Device.
func (d *SoftwareDevice) DestroyTexture(tex Texture) {
	if st, ok := tex.(*softwareTexture); ok {
		st.destroyed = true
		st.pix = nil
	}
}

// DrawInstances implements Device. The target must be an *ImageTarget.
func (d *SoftwareDevice) DrawInstances(target Target, atlas Texture, batches ...[]Instance) error {
	img, ok := target.(*ImageTarget)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
	st, err := d.texture(atlas)
	if err != nil {
		return err
	}
	for _, batch := range batches {
		for i := range batch {
			drawInstance(img, st, &batch[i])
		}
	}
	return nil
}

// drawInstance shades every pixel whose center falls inside the quad.
func drawInstance(img *ImageTarget, tex *softwareTexture, in *Instance) {
	w, h := img.Size()
	bl, tr := in.BottomLeft, in.TopRight
	qw, qh := tr[0]-bl[0], tr[1]-bl[1]
	if qw <= 0 || qh <= 0 {
		return
	}

	x0 := max(int(math.Floor(float64(bl[0]))), 0)
	y0 := max(int(math.Floor(float64(bl[1]))), 0)
	x1 := min(int(math.Ceil(float64(tr[0]))), w)
	y1 := min(int(math.Ceil(float64(tr[1]))), h)

	for sy := y0; sy < y1; sy++ {
		cy := float32(sy) + 0.5
		if cy < bl[1] || cy >= tr[1] {
			continue
		}
		ty := (cy - bl[1]) / qh
		v := in.TexBottomLeft[1] + ty*(in.TexTopRight[1]-in.TexBottomLeft[1])
		row := (h - 1 - sy) * img.Stride

		for sx := x0; sx < x1; sx++ {
			cx := float32(sx) + 0.5
			if cx < bl[0] || cx >= tr[0] {
				continue
			}
			tx := (cx - bl[0]) / qw
			u := in.TexBottomLeft[0] + tx*(in.TexTopRight[0]-in.TexBottomLeft[0])

			a := in.Color[3] * in.coverage(tex.sample(u, v))
			if a <= 0 {
				continue
			}
			blend(img.Pix[row+sx*4:row+sx*4+4], in.Color, a)
		}
	}
}

// sample reads the first channel at (u, v) with bilinear filtering and
// clamp-to-edge addressing, like the GPU sampler.
func (t *softwareTexture) sample(u, v float32) float32 {
	bpp := t.format.BytesPerPixel()
	fx := u*float32(t.width) - 0.5
	fy := v*float32(t.height) - 0.5
	ix, iy := int(math.Floor(float64(fx))), int(math.Floor(float64(fy)))
	ax, ay := fx-float32(ix), fy-float32(iy)

	at := func(x, y int) float32 {
		x = min(max(x, 0), t.width-1)
		y = min(max(y, 0), t.height-1)
		return float32(t.pix[(y*t.width+x)*bpp]) / 255
	}
	top := at(ix, iy)*(1-ax) + at(ix+1, iy)*ax
	bot := at(ix, iy+1)*(1-ax) + at(ix+1, iy+1)*ax
	return top*(1-ay) + bot*ay
}

// blend composites straight color c at coverage a over a premultiplied
// RGBA pixel.
func blend(px []byte, c [4]float32, a float32) {
	inv := 1 - a
	for i := 0; i < 3; i++ {
		s := c[i] * a * 255
		px[i] = byte(min(s+float32(px[i])*inv+0.5, 255))
	}
	px[3] = byte(min(a*255+float32(px[3])*inv+0.5, 255))
}
