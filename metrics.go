package sdftext

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/sdftext/glyph"
)

// GlyphAdvance returns how far the pen moves in pixels after cp when next
// follows it, for fontName at sizePx. Pass a negative next to skip
// kerning. It reports false for unknown fonts.
func (r *Renderer) GlyphAdvance(cp, next rune, fontName string, sizePx int) (float32, bool) {
	_, rz, ok := r.fonts.Lookup(fontName)
	if !ok || sizePx < 1 || sizePx > glyph.MaxSize {
		return 0, false
	}
	scale := rz.ScaleForPixelHeight(float32(sizePx))
	hm, err := rz.HMetrics(cp)
	if err != nil {
		return 0, false
	}
	adv := roundf(scale * float32(hm.Advance))
	if next >= 0 {
		adv += roundf(scale * float32(rz.KernAdvance(cp, next)))
	}
	return adv, true
}

// MeasureText returns the pen advance RenderText would produce for text
// at the given style scale. It neither rasterizes nor touches the cache.
func (r *Renderer) MeasureText(text, fontName string, sizePx int, scale float32) (float32, bool) {
	_, rz, ok := r.fonts.Lookup(fontName)
	if !ok || sizePx < 1 || sizePx > glyph.MaxSize {
		return 0, false
	}
	s := rz.ScaleForPixelHeight(float32(sizePx))
	text = norm.NFC.String(text)

	var width float32
	for i, w := 0, 0; i < len(text); i += w {
		var cp rune
		cp, w = utf8.DecodeRuneInString(text[i:])
		if cp > glyph.MaxCodepoint {
			continue
		}
		if hm, err := rz.HMetrics(cp); err == nil {
			width += roundf(s * float32(hm.Advance) * scale)
		}
		if i+w < len(text) {
			next, _ := utf8.DecodeRuneInString(text[i+w:])
			width += roundf(s * float32(rz.KernAdvance(cp, next)) * scale)
		}
	}
	return width, true
}

// LineHeight returns the baseline to baseline distance in pixels for
// fontName at sizePx.
func (r *Renderer) LineHeight(fontName string, sizePx int) (int, bool) {
	_, rz, ok := r.fonts.Lookup(fontName)
	if !ok || sizePx < 1 || sizePx > glyph.MaxSize {
		return 0, false
	}
	vm, err := rz.VMetrics()
	if err != nil {
		return 0, false
	}
	s := rz.ScaleForPixelHeight(float32(sizePx))
	return int(roundf(s * float32(vm.Ascent-vm.Descent+vm.LineGap))), true
}
