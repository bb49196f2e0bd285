package sdftext

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/gpu"
	"github.com/gogpu/sdftext/pack"
	"github.com/gogpu/sdftext/sdffont"
)

// Renderer queues text as instanced SDF quads and flushes them to a GPU
// target. It owns its atlas, glyph cache and font table.
type Renderer struct {
	device  gpu.Device
	texture gpu.Texture
	opts    options

	fonts  *sdffont.Table
	glyphs *glyph.Store
	packer *pack.Packer
	atlas  *atlas.Buffer

	instances []gpu.Instance
	shadows   []gpu.Instance

	stats  Stats
	closed bool
}

// New creates a Renderer drawing through device. It allocates the atlas
// texture immediately and fails if the device cannot.
func New(device gpu.Device, opts ...Option) (*Renderer, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	buf, err := atlas.New(o.atlasWidth, o.atlasHeight)
	if err != nil {
		return nil, fmt.Errorf("sdftext: atlas buffer: %w", err)
	}
	tex, err := device.CreateAtlasTexture(o.atlasWidth, o.atlasHeight, gpu.FormatR8)
	if err != nil {
		return nil, fmt.Errorf("sdftext: atlas texture: %w", err)
	}

	r := &Renderer{
		device:    device,
		texture:   tex,
		opts:      o,
		fonts:     sdffont.NewTable(),
		glyphs:    glyph.NewStore(),
		packer:    pack.New(o.atlasWidth, o.atlasHeight, o.sort),
		atlas:     buf,
		instances: make([]gpu.Instance, 0, o.maxInstances),
		shadows:   make([]gpu.Instance, 0, o.maxInstances),
	}
	Logger().Debug("sdftext: renderer created",
		"atlas", fmt.Sprintf("%dx%d", o.atlasWidth, o.atlasHeight),
		"sort", o.sort.String(), "upload", o.upload.String())
	return r, nil
}

// AddFont registers the .ttf or .otf file at path under name. It reports
// false, and logs why, if the name is taken or the file cannot be used.
func (r *Renderer) AddFont(name, path string) bool {
	if !r.canRegister(name) {
		return false
	}
	f, err := sdffont.Open(path)
	if err != nil {
		Logger().Warn("sdftext: cannot load font", "name", name, "path", path, "err", err)
		return false
	}
	return r.register(name, f, true)
}

// AddFontData registers in-memory TrueType or OpenType data under name.
// The renderer keeps a reference to data.
func (r *Renderer) AddFontData(name string, data []byte) bool {
	if !r.canRegister(name) {
		return false
	}
	f, err := sdffont.Parse(data)
	if err != nil {
		Logger().Warn("sdftext: cannot parse font", "name", name, "err", err)
		return false
	}
	return r.register(name, f, true)
}

// AddRasterizer registers a custom rasterizer under name. On success the
// renderer owns rz and closes it with the renderer.
func (r *Renderer) AddRasterizer(name string, rz sdffont.Rasterizer) bool {
	if !r.canRegister(name) {
		return false
	}
	return r.register(name, rz, false)
}

func (r *Renderer) canRegister(name string) bool {
	if r.closed {
		return false
	}
	if r.fonts.Contains(name) {
		Logger().Warn("sdftext: font already registered", "name", name)
		return false
	}
	return true
}

// register adds rz to the table. If that fails and opened is set, rz was
// created here and is closed.
func (r *Renderer) register(name string, rz sdffont.Rasterizer, opened bool) bool {
	id, err := r.fonts.Add(name, rz)
	if err != nil {
		Logger().Warn("sdftext: cannot register font", "name", name, "err", err)
		if opened {
			_ = rz.Close()
		}
		return false
	}
	Logger().Debug("sdftext: font added", "name", name, "id", id, "rasterizer", rz.Name())
	return true
}

// RemoveFont unregisters name and forgets its glyphs. Their atlas space
// is not reclaimed.
func (r *Renderer) RemoveFont(name string) bool {
	if r.closed {
		return false
	}
	id, err := r.fonts.Remove(name)
	if id == glyph.InvalidFont {
		Logger().Warn("sdftext: cannot remove font", "name", name, "err", err)
		return false
	}
	n := r.glyphs.DeleteFont(id)
	if err != nil {
		Logger().Warn("sdftext: font close failed", "name", name, "err", err)
	}
	Logger().Debug("sdftext: font removed", "name", name, "id", id, "glyphs", n)
	return true
}

// Fonts returns the registered font names in sorted order.
func (r *Renderer) Fonts() []string {
	return r.fonts.Names()
}

// RenderText queues text for the next Present, starting with the pen at
// baseline. Sizes of 1024 pixels or more, sizes below 1 and unknown fonts
// are logged and ignored. Glyphs missing from the cache are rasterized and
// uploaded before their quads are queued.
func (r *Renderer) RenderText(text, fontName string, sizePx int, baseline mgl32.Vec2, style Style) {
	if r.closed {
		return
	}
	if text == "" {
		return
	}
	id, rz, ok := r.fonts.Lookup(fontName)
	if !ok {
		Logger().Warn("sdftext: font not registered, add it with AddFont", "name", fontName)
		return
	}
	if sizePx < 1 || sizePx > glyph.MaxSize {
		Logger().Warn("sdftext: font size not supported",
			"size", sizePx, "min", 1, "max", glyph.MaxSize)
		return
	}

	text = norm.NFC.String(text)
	pen := baseline
	for i, w := 0, 0; i < len(text); i += w {
		var cp rune
		cp, w = utf8.DecodeRuneInString(text[i:])

		rec, ok := r.lookup(id, rz, sizePx, cp)
		if !ok {
			continue
		}
		r.emit(rec, pen, style)

		pen[0] += roundf(rec.Scale * float32(rec.Advance) * style.Scale)
		if i+w < len(text) {
			next, _ := utf8.DecodeRuneInString(text[i+w:])
			pen[0] += roundf(rec.Scale * float32(rz.KernAdvance(cp, next)) * style.Scale)
		}
	}
}

// lookup returns the cached record for cp, populating the cache on a miss.
func (r *Renderer) lookup(id glyph.FontID, rz sdffont.Rasterizer, size int, cp rune) (*glyph.Record, bool) {
	key, err := glyph.NewKey(cp, size, id)
	if err != nil {
		Logger().Warn("sdftext: rune cannot be cached", "rune", cp, "err", err)
		return nil, false
	}
	if rec, ok := r.glyphs.Get(key); ok {
		r.stats.CacheHits++
		return rec, true
	}
	r.stats.CacheMisses++
	r.populate(id, rz, size, cp)

	rec, ok := r.glyphs.Get(key)
	return rec, ok
}

// emit queues the quads for one glyph with the pen on the baseline.
func (r *Renderer) emit(rec *glyph.Record, pen mgl32.Vec2, style Style) {
	if rec.Empty() {
		return
	}
	bl := pen.Add(mgl32.Vec2{float32(rec.OffsetX), float32(rec.OffsetY)}.Mul(style.Scale))
	tr := bl.Add(mgl32.Vec2{float32(rec.Width), float32(rec.Height)}.Mul(style.Scale))

	if len(r.instances) >= r.opts.maxInstances {
		r.stats.InstancesDropped++
		if r.stats.InstancesDropped == 1 || r.stats.InstancesDropped%r.opts.maxInstances == 0 {
			Logger().Warn("sdftext: instance limit reached, glyph dropped",
				"limit", r.opts.maxInstances, "dropped", r.stats.InstancesDropped)
		}
		return
	}

	q := gpu.Instance{
		BottomLeft:      bl,
		TopRight:        tr,
		TexBottomLeft:   rec.UVBottomLeft,
		TexTopRight:     rec.UVTopRight,
		Color:           style.Color,
		ThresholdBottom: style.Threshold,
		ThresholdTop:    style.Threshold,
	}
	if style.Shadow {
		off := style.ShadowOffset.Mul(style.Scale)
		s := q
		s.BottomLeft = bl.Add(off)
		s.TopRight = tr.Add(off)
		s.Color = style.ShadowColor
		s.ThresholdBottom = style.ShadowThresholdBottom
		s.ThresholdTop = style.ShadowThresholdTop
		r.shadows = append(r.shadows, s)
	}
	r.instances = append(r.instances, q)
	r.stats.Instances++
}

// Present draws the queued shadows, then the queued glyphs, onto target
// and clears both lists. It reports false if drawing failed or the
// renderer is closed. The lists are kept on failure.
func (r *Renderer) Present(target gpu.Target) bool {
	if r.closed {
		return false
	}
	if err := r.device.DrawInstances(target, r.texture, r.shadows, r.instances); err != nil {
		Logger().Error("sdftext: present failed",
			"glyphs", len(r.instances), "shadows", len(r.shadows), "err", err)
		return false
	}
	r.instances = r.instances[:0]
	r.shadows = r.shadows[:0]
	r.stats.Frames++
	return true
}

// Pending returns the number of glyph and shadow quads waiting for Present.
func (r *Renderer) Pending() (glyphs, shadows int) {
	return len(r.instances), len(r.shadows)
}

// IsGlyphPresent reports whether cp is cached for fontName at sizePx.
func (r *Renderer) IsGlyphPresent(cp rune, fontName string, sizePx int) bool {
	id, _, ok := r.fonts.Lookup(fontName)
	if !ok {
		return false
	}
	key, err := glyph.NewKey(cp, sizePx, id)
	if err != nil {
		return false
	}
	return r.glyphs.Has(key)
}

// Atlas returns the CPU copy of the atlas. Callers must not modify it.
func (r *Renderer) Atlas() *atlas.Buffer {
	return r.atlas
}

// Stats returns a snapshot of the renderer counters.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.Fonts = r.fonts.Len()
	s.Glyphs = r.glyphs.Len()
	s.GlyphBytes = r.glyphs.Bytes()
	s.AtlasUsed = r.packer.Utilization()
	return s
}

// Close releases the atlas texture, the fonts and the cached glyphs.
// Calling Close again returns ErrClosed.
func (r *Renderer) Close() error {
	if r.closed {
		return ErrClosed
	}
	r.closed = true
	r.device.DestroyTexture(r.texture)
	r.texture = nil
	err := r.fonts.Close()
	r.glyphs.Clear()
	r.instances = nil
	r.shadows = nil
	if err != nil {
		return fmt.Errorf("sdftext: close fonts: %w", err)
	}
	return nil
}

func roundf(v float32) float32 {
	return float32(math.Round(float64(v)))
}
