package sdffont

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Font is a TrueType or OpenType font backed by golang.org/x/image/font/sfnt.
//
// A Font keeps scratch buffers between calls and is not safe for
// concurrent use.
type Font struct {
	name string
	data []byte
	font *sfnt.Font
	buf  sfnt.Buffer
	upem int
	vm   VMetrics

	kern *kerner

	// Scratch reused by GlyphSDF.
	edges  []edge
	raster *vector.Rasterizer
	mask   *image.Alpha
	pix    []byte

	closed bool
}

// CheckFileType reports ErrUnsupportedFile unless path names a .ttf or .otf
// file.
func CheckFileType(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf":
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
}

// Open reads and parses a font file.
func Open(path string) (*Font, error) {
	if err := CheckFileType(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sdffont: read font: %w", err)
	}
	return Parse(data)
}

// Parse parses TrueType or OpenType data. The font keeps a reference to
// data.
func Parse(data []byte) (*Font, error) {
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sdffont: failed to parse font: %w", err)
	}

	f := &Font{
		data: data,
		font: sf,
		upem: int(sf.UnitsPerEm()),
	}
	if name, err := sf.Name(&f.buf, sfnt.NameIDFamily); err == nil {
		f.name = name
	}

	m, err := sf.Metrics(&f.buf, f.unitsPPEM(), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("sdffont: font metrics: %w", err)
	}
	f.vm = VMetrics{
		Ascent:  m.Ascent.Round(),
		Descent: -m.Descent.Round(),
		LineGap: (m.Height - m.Ascent - m.Descent).Round(),
	}

	f.kern = newKerner(f)
	return f, nil
}

// unitsPPEM is the ppem at which one pixel equals one font unit.
func (f *Font) unitsPPEM() fixed.Int26_6 {
	return fixed.I(f.upem)
}

// Name returns the font family name, or "" if the font has none.
func (f *Font) Name() string { return f.name }

// UnitsPerEm returns the font's design units per em.
func (f *Font) UnitsPerEm() int { return f.upem }

// VMetrics returns the vertical metrics in font units.
func (f *Font) VMetrics() (VMetrics, error) {
	if f.closed {
		return VMetrics{}, ErrClosed
	}
	return f.vm, nil
}

// ScaleForPixelHeight returns the scale that maps ascent-descent to px
// pixels.
func (f *Font) ScaleForPixelHeight(px float32) float32 {
	h := f.vm.Ascent - f.vm.Descent
	if h <= 0 {
		return 0
	}
	return px / float32(h)
}

// HasGlyph reports whether the font maps cp to a glyph other than .notdef.
func (f *Font) HasGlyph(cp rune) bool {
	if f.closed {
		return false
	}
	gid, err := f.font.GlyphIndex(&f.buf, cp)
	return err == nil && gid != 0
}

// HMetrics returns the advance and left side bearing of cp in font units.
// Unmapped codepoints report the metrics of .notdef.
func (f *Font) HMetrics(cp rune) (HMetrics, error) {
	if f.closed {
		return HMetrics{}, ErrClosed
	}
	gid, err := f.font.GlyphIndex(&f.buf, cp)
	if err != nil {
		return HMetrics{}, fmt.Errorf("sdffont: glyph index %U: %w", cp, err)
	}
	adv, err := f.font.GlyphAdvance(&f.buf, gid, f.unitsPPEM(), font.HintingNone)
	if err != nil {
		return HMetrics{}, fmt.Errorf("sdffont: advance %U: %w", cp, err)
	}
	bounds, _, err := f.font.GlyphBounds(&f.buf, gid, f.unitsPPEM(), font.HintingNone)
	if err != nil {
		return HMetrics{}, fmt.Errorf("sdffont: bounds %U: %w", cp, err)
	}
	return HMetrics{
		Advance:         adv.Round(),
		LeftSideBearing: bounds.Min.X.Round(),
	}, nil
}

// KernAdvance returns the kerning between a and b in font units. Unknown
// pairs kern by zero.
func (f *Font) KernAdvance(a, b rune) int {
	if f.closed {
		return 0
	}
	return f.kern.advance(a, b)
}

// Close releases the font's buffers. Later calls fail with ErrClosed.
func (f *Font) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.kern.purge()
	f.edges = nil
	f.raster = nil
	f.mask = nil
	f.pix = nil
	return nil
}
