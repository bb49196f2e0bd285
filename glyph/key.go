// Package glyph holds cached glyph records keyed by codepoint, pixel size
// and font.
package glyph

import "fmt"

// Field widths of the packed key, most significant first.
const (
	codepointBits = 16
	sizeBits      = 10
	fontBits      = 6

	sizeShift      = fontBits
	codepointShift = fontBits + sizeBits
)

// Limits derived from the packed key layout.
const (
	MaxCodepoint = 1<<codepointBits - 1
	MaxSize      = 1<<sizeBits - 1
	MaxFontID    = 1<<fontBits - 1
)

// FontID identifies a registered font. Zero is never assigned.
type FontID uint8

// InvalidFont is the zero FontID.
const InvalidFont FontID = 0

// Key identifies one cached glyph: a codepoint rendered at a pixel size
// with a font. Build keys with NewKey so every field is range checked.
type Key struct {
	Codepoint rune
	Size      int
	Font      FontID
}

// KeyRangeError reports a key field that does not fit its packed width.
type KeyRangeError struct {
	Field string
	Value int
	Max   int
}

func (e *KeyRangeError) Error() string {
	return fmt.Sprintf("glyph: %s %d out of range [0, %d]", e.Field, e.Value, e.Max)
}

// NewKey validates the fields and returns the key.
func NewKey(cp rune, size int, font FontID) (Key, error) {
	switch {
	case cp < 0 || cp > MaxCodepoint:
		return Key{}, &KeyRangeError{Field: "codepoint", Value: int(cp), Max: MaxCodepoint}
	case size < 0 || size > MaxSize:
		return Key{}, &KeyRangeError{Field: "size", Value: size, Max: MaxSize}
	case font > MaxFontID:
		return Key{}, &KeyRangeError{Field: "font", Value: int(font), Max: MaxFontID}
	}
	return Key{Codepoint: cp, Size: size, Font: font}, nil
}

// Pack encodes the key as codepoint<<16 | size<<6 | font.
func (k Key) Pack() uint32 {
	return uint32(k.Codepoint)<<codepointShift |
		uint32(k.Size)<<sizeShift |
		uint32(k.Font)
}

// Unpack decodes a value produced by Key.Pack.
func Unpack(v uint32) Key {
	return Key{
		Codepoint: rune(v >> codepointShift),
		Size:      int(v >> sizeShift & MaxSize),
		Font:      FontID(v & MaxFontID),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("U+%04X/%dpx/font%d", k.Codepoint, k.Size, k.Font)
}
