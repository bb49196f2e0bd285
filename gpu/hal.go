package gpu

import (
	_ "embed"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Embedded SDF text shader source.
//
//go:embed shaders/sdf_text.wgsl
var sdfTextShaderSource string

// screenUniformSize is the byte size of the Screen uniform:
// size (vec2<f32>) + padding (vec2<f32>).
const screenUniformSize = 16

// quadVertexCount is the number of vertices drawn per instance.
const quadVertexCount = 6

// submitTimeout bounds the wait for a frame's fence.
const submitTimeout = 5 * time.Second

// HALTarget is a texture view to draw glyphs into. The view's format must
// match the device's target format.
type HALTarget struct {
	View          hal.TextureView
	Width, Height int
}

// Size returns the target dimensions.
func (t *HALTarget) Size() (width, height int) { return t.Width, t.Height }

// halTexture is an atlas texture with its sampling view.
type halTexture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	format PixelFormat
}

func (t *halTexture) Size() (int, int)    { return t.width, t.height }
func (t *halTexture) Format() PixelFormat { return t.format }

// HALOption configures a HALDevice.
type HALOption func(*halOptions)

type halOptions struct {
	targetFormat gputypes.TextureFormat
}

// WithTargetFormat sets the color format of render targets.
// Default: BGRA8Unorm.
func WithTargetFormat(f gputypes.TextureFormat) HALOption {
	return func(o *halOptions) {
		if f != gputypes.TextureFormatUndefined {
			o.targetFormat = f
		}
	}
}

// HALDevice implements Device on top of a wgpu hal device and queue.
//
// The render pipeline is built on first draw. HALDevice does not own the
// hal device; Destroy releases only what HALDevice created.
type HALDevice struct {
	device hal.Device
	queue  hal.Queue
	opts   halOptions

	shader     hal.ShaderModule
	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
}

// NewHALDevice wraps a hal device and queue.
func NewHALDevice(device hal.Device, queue hal.Queue, opts ...HALOption) (*HALDevice, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu: nil hal device or queue")
	}
	o := halOptions{targetFormat: gputypes.TextureFormatBGRA8Unorm}
	for _, opt := range opts {
		opt(&o)
	}
	return &HALDevice{device: device, queue: queue, opts: o}, nil
}

// NewHALDeviceFromProvider builds a HALDevice on a host's shared device.
// The provider must also expose HalDevice and HalQueue. Its surface
// format becomes the target format unless an option overrides it.
func NewHALDeviceFromProvider(provider gpucontext.DeviceProvider, opts ...HALOption) (*HALDevice, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}
	opts = append([]HALOption{WithTargetFormat(provider.SurfaceFormat())}, opts...)
	return NewHALDevice(device, queue, opts...)
}

// TargetFormat returns the color format the pipeline renders to.
func (d *HALDevice) TargetFormat() gputypes.TextureFormat { return d.opts.targetFormat }

func halFormat(f PixelFormat) gputypes.TextureFormat {
	if f == FormatRGBA8 {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatR8Unorm
}

// CreateAtlasTexture implements Device.
func (d *HALDevice) CreateAtlasTexture(width, height int, format PixelFormat) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "sdf_atlas",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // validated positive
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        halFormat(format),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create atlas texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "sdf_atlas_view",
		Format:        halFormat(format),
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create atlas texture view: %w", err)
	}

	slogger().Debug("gpu: atlas texture created", "width", width, "height", height, "format", format)
	return &halTexture{tex: tex, view: view, width: width, height: height, format: format}, nil
}

func (d *HALDevice) texture(tex Texture) (*halTexture, error) {
	ht, ok := tex.(*halTexture)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if ht.tex == nil {
		return nil, ErrTextureDestroyed
	}
	return ht, nil
}

// UpdateTextureRegion implements Device.
func (d *HALDevice) UpdateTextureRegion(tex Texture, origin, size image.Point, pix []byte) error {
	ht, err := d.texture(tex)
	if err != nil {
		return err
	}
	bpp := ht.format.BytesPerPixel()
	if err := checkRegion(ht.width, ht.height, bpp, origin, size, pix); err != nil {
		return err
	}

	//nolint:gosec // region validated against the texture bounds
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  ht.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(origin.X), Y: uint32(origin.Y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		pix[:size.X*size.Y*bpp],
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(size.X * bpp),
			RowsPerImage: uint32(size.Y),
		},
		&hal.Extent3D{Width: uint32(size.X), Height: uint32(size.Y), DepthOrArrayLayers: 1},
	)
	return nil
}

// DestroyTexture implements Device.
func (d *HALDevice) DestroyTexture(tex Texture) {
	ht, ok := tex.(*halTexture)
	if !ok || ht.tex == nil {
		return
	}
	d.device.DestroyTextureView(ht.view)
	d.device.DestroyTexture(ht.tex)
	ht.view, ht.tex = nil, nil
}

// DrawInstances implements Device. The target must be a *HALTarget. All
// batches are drawn in one render pass that loads the existing contents.
func (d *HALDevice) DrawInstances(target Target, atlas Texture, batches ...[]Instance) error {
	ht, ok := target.(*HALTarget)
	if !ok || ht.View == nil {
		return fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
	tex, err := d.texture(atlas)
	if err != nil {
		return err
	}

	total := 0
	for _, b := range batches {
		total += len(b)
	}
	if total == 0 {
		return nil
	}

	if err := d.ensurePipeline(); err != nil {
		return err
	}

	data := make([]byte, 0, total*InstanceSize)
	for _, b := range batches {
		data = EncodeInstances(data, b)
	}

	res, err := d.frameResources(ht, tex, data)
	if err != nil {
		return err
	}
	defer res.destroy(d.device)

	return d.encodeAndSubmit(ht, res, batches)
}

// Destroy releases the pipeline objects. Textures are released with
// DestroyTexture.
func (d *HALDevice) Destroy() {
	if d.pipeline != nil {
		d.device.DestroyRenderPipeline(d.pipeline)
		d.pipeline = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.layout != nil {
		d.device.DestroyBindGroupLayout(d.layout)
		d.layout = nil
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
}
