package sdftext

import (
	"fmt"

	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/pack"
	"github.com/gogpu/sdftext/sdffont"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := sdftext.New(dev,
//	    sdftext.WithAtlasSize(512, 512),
//	    sdftext.WithSortCriteria(pack.SortArea),
//	)
type Option func(*options)

// options holds the configuration collected from Option values.
type options struct {
	atlasWidth, atlasHeight int
	sort                    pack.SortCriteria
	sdf                     sdffont.SDFParams
	rangeStart, rangeEnd    rune
	maxInstances            int
	upload                  atlas.SyncMode
}

// Defaults used when no option overrides them.
const (
	DefaultAtlasSize    = 1024
	DefaultRangeStart   = 32
	DefaultRangeEnd     = 127
	DefaultMaxInstances = 1024
)

func defaultOptions() options {
	return options{
		atlasWidth:   DefaultAtlasSize,
		atlasHeight:  DefaultAtlasSize,
		sort:         pack.SortHeight,
		sdf:          sdffont.DefaultSDFParams(),
		rangeStart:   DefaultRangeStart,
		rangeEnd:     DefaultRangeEnd,
		maxInstances: DefaultMaxInstances,
		upload:       atlas.SyncDirty,
	}
}

// WithAtlasSize sets the atlas texture size in pixels.
func WithAtlasSize(width, height int) Option {
	return func(o *options) {
		o.atlasWidth = width
		o.atlasHeight = height
	}
}

// WithSortCriteria sets the order in which a population batch is packed.
func WithSortCriteria(c pack.SortCriteria) Option {
	return func(o *options) {
		o.sort = c
	}
}

// WithSDFParams sets the distance field parameters used for every glyph.
func WithSDFParams(p sdffont.SDFParams) Option {
	return func(o *options) {
		o.sdf = p
	}
}

// WithCodepointRange sets the half-open range [start, end) rasterized when
// a font and size combination is first used.
func WithCodepointRange(start, end rune) Option {
	return func(o *options) {
		o.rangeStart = start
		o.rangeEnd = end
	}
}

// WithMaxInstances caps the glyph quads queued per frame. The shadow list
// has the same cap.
func WithMaxInstances(n int) Option {
	return func(o *options) {
		o.maxInstances = n
	}
}

// WithUploadMode selects whether populations upload the dirty region of
// the atlas or the whole atlas.
func WithUploadMode(m atlas.SyncMode) Option {
	return func(o *options) {
		o.upload = m
	}
}

func (o *options) validate() error {
	switch {
	case o.atlasWidth <= 0 || o.atlasHeight <= 0:
		return &ConfigError{Field: "atlas size",
			Reason: fmt.Sprintf("%dx%d is not positive", o.atlasWidth, o.atlasHeight)}
	case !o.sort.Valid():
		return &ConfigError{Field: "sort criteria", Reason: o.sort.String() + " is unknown"}
	case o.sdf.Padding < 0:
		return &ConfigError{Field: "sdf padding", Reason: "must not be negative"}
	case o.sdf.PixelDistScale <= 0:
		return &ConfigError{Field: "sdf pixel distance scale", Reason: "must be positive"}
	case o.rangeStart < 0 || o.rangeStart >= o.rangeEnd:
		return &ConfigError{Field: "codepoint range",
			Reason: fmt.Sprintf("[%d, %d) is empty", o.rangeStart, o.rangeEnd)}
	case o.rangeEnd > glyph.MaxCodepoint+1:
		return &ConfigError{Field: "codepoint range",
			Reason: fmt.Sprintf("end %d exceeds %d", o.rangeEnd, glyph.MaxCodepoint+1)}
	case o.maxInstances <= 0:
		return &ConfigError{Field: "max instances", Reason: "must be positive"}
	case o.upload != atlas.SyncDirty && o.upload != atlas.SyncFull:
		return &ConfigError{Field: "upload mode", Reason: o.upload.String() + " is unknown"}
	}
	return nil
}
