package sdftext

import (
	"image"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/pack"
	"github.com/gogpu/sdftext/sdffont"
)

// atlasBorder is the empty margin kept around every glyph in the atlas so
// bilinear sampling never reads a neighbor.
const atlasBorder = 1

// populate rasterizes the configured codepoint range for font id at size,
// plus miss if it lies outside the range, packs the new bitmaps into the
// atlas and uploads the changed region.
func (r *Renderer) populate(id glyph.FontID, rz sdffont.Rasterizer, size int, miss rune) {
	scale := rz.ScaleForPixelHeight(float32(size))

	batch := make([]pack.RectIn, 0, int(r.opts.rangeEnd-r.opts.rangeStart)+1)
	add := func(cp rune) {
		key, err := glyph.NewKey(cp, size, id)
		if err != nil || r.glyphs.Has(key) {
			return
		}
		rec := r.rasterize(rz, cp, scale)
		r.glyphs.Put(key, rec)
		// Empty glyphs still take a border-only cell.
		batch = append(batch, pack.RectIn{
			Size:     image.Pt(rec.Width+2*atlasBorder, rec.Height+2*atlasBorder),
			UserData: uint64(key.Pack()),
		})
	}
	for cp := r.opts.rangeStart; cp < r.opts.rangeEnd; cp++ {
		add(cp)
	}
	if miss < r.opts.rangeStart || miss >= r.opts.rangeEnd {
		add(miss)
	}
	r.stats.Populations++

	placed := r.packer.Pack(batch)
	r.place(placed)
	if dropped := len(batch) - len(placed); dropped > 0 {
		r.stats.Dropped += dropped
		Logger().Warn("sdftext: atlas full, glyphs dropped",
			"font", id, "size", size, "dropped", dropped, "batch", len(batch))
	}
	Logger().Debug("sdftext: glyphs populated",
		"font", id, "size", size, "scale", scale, "batch", len(batch), "placed", len(placed))

	r.upload()
}

// place blits each placed record into the atlas, inset by the border, and
// sets its texture coordinates. A record whose blit fails stays unplaced
// and counts as dropped.
func (r *Renderer) place(placed []pack.RectOut) {
	w, h := float32(r.atlas.Width()), float32(r.atlas.Height())
	for _, p := range placed {
		rec, ok := r.glyphs.Get(glyph.Unpack(uint32(p.UserData)))
		if !ok {
			continue
		}
		at := p.BottomLeft.Add(image.Pt(atlasBorder, atlasBorder))
		if err := r.atlas.Blit(at, rec.Width, rec.Height, rec.SDF); err != nil {
			r.stats.Dropped++
			Logger().Warn("sdftext: glyph blit failed", "rune", rec.Codepoint, "err", err)
			continue
		}
		rec.UVBottomLeft = mgl32.Vec2{float32(at.X) / w, float32(at.Y) / h}
		rec.UVTopRight = mgl32.Vec2{float32(at.X+rec.Width) / w, float32(at.Y+rec.Height) / h}
		rec.Placed = true
	}
}

// rasterize produces the record for one codepoint. The rasterizer's
// bitmap is copied before the next call can overwrite it. A glyph that
// fails to rasterize is stored empty so it is not retried.
func (r *Renderer) rasterize(rz sdffont.Rasterizer, cp rune, scale float32) *glyph.Record {
	rec := &glyph.Record{Codepoint: cp, Scale: scale}
	if hm, err := rz.HMetrics(cp); err == nil {
		rec.Advance = hm.Advance
	} else {
		Logger().Warn("sdftext: no metrics for rune", "rune", cp, "err", err)
	}

	bm, err := rz.GlyphSDF(cp, scale, r.opts.sdf)
	r.stats.Rasterized++
	if err != nil {
		Logger().Warn("sdftext: rasterize failed", "rune", cp, "err", err)
		return rec
	}
	if bm.Width <= 0 || bm.Height <= 0 || len(bm.Pix) < bm.Width*bm.Height {
		return rec
	}
	rec.Width = bm.Width
	rec.Height = bm.Height
	rec.OffsetX = bm.OffsetX
	rec.OffsetY = -(bm.OffsetY + bm.Height)
	rec.SDF = slices.Clone(bm.Pix[:bm.Width*bm.Height])
	return rec
}

// upload pushes pending atlas changes to the texture.
func (r *Renderer) upload() {
	n, err := r.atlas.Sync(atlas.UploadFunc(func(region image.Rectangle, pix []byte) error {
		return r.device.UpdateTextureRegion(r.texture, region.Min, region.Size(), pix)
	}), r.opts.upload)
	if err != nil {
		Logger().Error("sdftext: atlas upload failed", "err", err)
		return
	}
	if n > 0 {
		r.stats.Uploads++
		r.stats.UploadedBytes += n
		Logger().Debug("sdftext: atlas uploaded", "bytes", n, "mode", r.opts.upload.String())
	}
}
