// Package sdftext draws text with signed distance field glyphs packed into
// a single GPU texture atlas.
//
// # Overview
//
// A Renderer owns a font table, a glyph cache, an atlas buffer mirrored on
// the GPU, and the per-frame instance lists. Text is queued with
// RenderText and flushed with Present:
//
//	dev := gpu.NewSoftwareDevice()
//	r, err := sdftext.New(dev)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	r.AddFont("regular", "fonts/Regular.ttf")
//	r.RenderText("Hello", "regular", 32, mgl32.Vec2{10, 10}, sdftext.DefaultStyle())
//	r.Present(target)
//
// # Glyph cache
//
// Glyphs are keyed by codepoint, pixel size and font. When a rune is not in
// the cache, the renderer rasterizes the whole configured codepoint range
// for that font and size in one batch, packs the bitmaps into the atlas
// with a guillotine packer, and uploads the changed region to the GPU.
// Glyphs that do not fit are dropped, counted in Stats and logged. They
// keep zero texture coordinates.
//
// # Coordinate system
//
// Positions are in pixels with the origin at the bottom-left of the target
// and y growing upward. The baseline start passed to RenderText is the pen
// position of the first glyph.
//
// # Concurrency
//
// A Renderer is not safe for concurrent use. Use one Renderer per
// goroutine, or guard it with a mutex.
package sdftext
