package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InstanceSize is the byte stride of one encoded Instance.
// Layout, matching InstanceInput in sdf_text.wgsl:
//
//	bottom_left     (vec2<f32>) = 8 bytes  (location 0)
//	top_right       (vec2<f32>) = 8 bytes  (location 1)
//	tex_bottom_left (vec2<f32>) = 8 bytes  (location 2)
//	tex_top_right   (vec2<f32>) = 8 bytes  (location 3)
//	color           (vec4<f32>) = 16 bytes (location 4)
//	thresholds      (vec2<f32>) = 8 bytes  (location 5)
//	padding                     = 8 bytes
const InstanceSize = 64

// Instance is one textured glyph quad.
//
// Positions are screen pixels, y up. Texture coordinates are normalized
// atlas coordinates. The distance sampled from the atlas is mapped to
// coverage with smoothstep(ThresholdBottom, ThresholdTop, d). Color is
// straight (not premultiplied) RGBA.
type Instance struct {
	BottomLeft    mgl32.Vec2
	TopRight      mgl32.Vec2
	TexBottomLeft mgl32.Vec2
	TexTopRight   mgl32.Vec2
	Color         mgl32.Vec4

	ThresholdBottom float32
	ThresholdTop    float32
}

// EncodeInstances appends the GPU layout of instances to dst.
func EncodeInstances(dst []byte, instances []Instance) []byte {
	for i := range instances {
		dst = instances[i].appendBytes(dst)
	}
	return dst
}

func (in *Instance) appendBytes(dst []byte) []byte {
	var buf [InstanceSize]byte
	f := [...]float32{
		in.BottomLeft[0], in.BottomLeft[1],
		in.TopRight[0], in.TopRight[1],
		in.TexBottomLeft[0], in.TexBottomLeft[1],
		in.TexTopRight[0], in.TexTopRight[1],
		in.Color[0], in.Color[1], in.Color[2], in.Color[3],
		in.ThresholdBottom, in.ThresholdTop,
	}
	for i, v := range f {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return append(dst, buf[:]...)
}

// coverage maps a sampled distance in [0, 1] to alpha.
func (in *Instance) coverage(d float32) float32 {
	lo, hi := in.ThresholdBottom, in.ThresholdTop
	if hi <= lo {
		if d >= lo {
			return 1
		}
		return 0
	}
	t := min(max((d-lo)/(hi-lo), 0), 1)
	return t * t * (3 - 2*t)
}
