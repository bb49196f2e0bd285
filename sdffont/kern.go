package sdffont

import (
	"bytes"
	"errors"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
)

// kernCacheSize bounds the number of memoized pairs per font.
const kernCacheSize = 4096

// kerner resolves pair kerning. The legacy kern table is tried first; a
// pair it does not cover is shaped with HarfBuzz so GPOS kerning applies.
type kerner struct {
	f     *Font
	cache *lru.Cache

	face     *gotext.Face
	loaded   bool
	shaper   shaping.HarfbuzzShaper
	language language.Language
}

func newKerner(f *Font) *kerner {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New(kernCacheSize)
	return &kerner{f: f, cache: cache, language: language.NewLanguage("en")}
}

func pairKey(a, b rune) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

func (k *kerner) advance(a, b rune) int {
	key := pairKey(a, b)
	if v, ok := k.cache.Get(key); ok {
		return v.(int)
	}
	v := k.lookup(a, b)
	k.cache.Add(key, v)
	return v
}

func (k *kerner) lookup(a, b rune) int {
	f := k.f
	ga, err := f.font.GlyphIndex(&f.buf, a)
	if err != nil || ga == 0 {
		return 0
	}
	gb, err := f.font.GlyphIndex(&f.buf, b)
	if err != nil || gb == 0 {
		return 0
	}

	kv, err := f.font.Kern(&f.buf, ga, gb, f.unitsPPEM(), font.HintingNone)
	switch {
	case err == nil && kv != 0:
		return kv.Round()
	case err != nil && !errors.Is(err, sfnt.ErrNotFound):
		slogger().Debug("sdffont: kern table lookup failed", "a", a, "b", b, "err", err)
	}
	return k.shaped(a, b)
}

// shaped measures how much shaping the pair moves the first glyph's
// advance away from shaping it alone.
func (k *kerner) shaped(a, b rune) int {
	face := k.loadFace()
	if face == nil {
		return 0
	}
	pair := k.shape(face, []rune{a, b})
	single := k.shape(face, []rune{a})
	if len(pair) != 2 || len(single) != 1 {
		return 0
	}
	return (pair[0].Advance - single[0].Advance).Round()
}

func (k *kerner) shape(face *gotext.Face, runes []rune) []shaping.Glyph {
	out := k.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      k.f.unitsPPEM(),
		Script:    language.LookupScript(runes[0]),
		Language:  k.language,
	})
	return out.Glyphs
}

// loadFace parses the go-text face on first use.
func (k *kerner) loadFace() *gotext.Face {
	if k.loaded {
		return k.face
	}
	k.loaded = true
	parsed, err := gotext.ParseTTF(bytes.NewReader(k.f.data))
	if err != nil {
		slogger().Warn("sdffont: shaping face unavailable, GPOS kerning disabled", "font", k.f.name, "err", err)
		return nil
	}
	k.face = gotext.NewFace(parsed.Font)
	return k.face
}

func (k *kerner) purge() {
	k.cache.Purge()
	k.face = nil
}
