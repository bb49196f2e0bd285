package gpu

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("no noop adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func createTarget(t *testing.T, device hal.Device, w, h int) *HALTarget {
	t.Helper()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_target",
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		t.Fatalf("create target texture: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "test_target_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Fatalf("create target view: %v", err)
	}
	t.Cleanup(func() {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
	})
	return &HALTarget{View: view, Width: w, Height: h}
}

func TestHALDeviceTextureLifecycle(t *testing.T) {
	device, queue := createNoopDevice(t)
	d, err := NewHALDevice(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Destroy()

	tex, err := d.CreateAtlasTexture(64, 32, FormatR8)
	if err != nil {
		t.Fatalf("CreateAtlasTexture() error: %v", err)
	}
	if w, h := tex.Size(); w != 64 || h != 32 {
		t.Errorf("Size() = %dx%d, want 64x32", w, h)
	}

	if err := d.UpdateTextureRegion(tex, image.Pt(4, 4), image.Pt(8, 2), make([]byte, 16)); err != nil {
		t.Errorf("UpdateTextureRegion() error: %v", err)
	}
	if err := d.UpdateTextureRegion(tex, image.Pt(60, 0), image.Pt(8, 1), make([]byte, 8)); !errors.Is(err, ErrRegionOutOfBounds) {
		t.Errorf("overhanging update = %v, want ErrRegionOutOfBounds", err)
	}

	d.DestroyTexture(tex)
	d.DestroyTexture(tex)
	if err := d.UpdateTextureRegion(tex, image.Point{}, image.Pt(1, 1), []byte{0}); !errors.Is(err, ErrTextureDestroyed) {
		t.Errorf("update after destroy = %v, want ErrTextureDestroyed", err)
	}
}

func TestHALDeviceDrawInstances(t *testing.T) {
	device, queue := createNoopDevice(t)
	d, err := NewHALDevice(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Destroy()

	tex, err := d.CreateAtlasTexture(32, 32, FormatR8)
	if err != nil {
		t.Fatal(err)
	}
	defer d.DestroyTexture(tex)
	target := createTarget(t, device, 128, 64)

	glyphs := []Instance{{
		BottomLeft:      mgl32.Vec2{10, 10},
		TopRight:        mgl32.Vec2{20, 24},
		TexTopRight:     mgl32.Vec2{0.25, 0.5},
		Color:           mgl32.Vec4{1, 1, 1, 1},
		ThresholdBottom: 0.65,
		ThresholdTop:    0.75,
	}}
	shadows := []Instance{{
		BottomLeft:      mgl32.Vec2{10, 10},
		TopRight:        mgl32.Vec2{20, 24},
		TexTopRight:     mgl32.Vec2{0.25, 0.5},
		Color:           mgl32.Vec4{0, 0, 0, 0.4},
		ThresholdBottom: 0.4,
		ThresholdTop:    0.7,
	}}

	if err := d.DrawInstances(target, tex, shadows, glyphs); err != nil {
		t.Fatalf("DrawInstances() error: %v", err)
	}
	if d.pipeline == nil {
		t.Error("pipeline not created by the first draw")
	}
	if err := d.DrawInstances(target, tex); err != nil {
		t.Errorf("empty DrawInstances() error: %v", err)
	}
	if err := d.DrawInstances(NewImageTarget(4, 4), tex, glyphs); !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("image target = %v, want ErrUnsupportedTarget", err)
	}
}

func TestCompileShader(t *testing.T) {
	code, err := compileShader(sdfTextShaderSource)
	if err != nil {
		t.Fatalf("compileShader() error: %v", err)
	}
	const spirvMagic = 0x07230203
	if len(code) == 0 || code[0] != spirvMagic {
		t.Errorf("compiled shader does not start with the SPIR-V magic number")
	}
}

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// halProvider implements gpucontext.DeviceProvider with HAL access.
type halProvider struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

func (p *halProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (p *halProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (p *halProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (p *halProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *halProvider) HalDevice() any                        { return p.device }
func (p *halProvider) HalQueue() any                         { return p.queue }

func TestNewHALDeviceFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)

	d, err := NewHALDeviceFromProvider(&halProvider{
		device: device,
		queue:  queue,
		format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		t.Fatalf("NewHALDeviceFromProvider() error: %v", err)
	}
	if d.TargetFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("TargetFormat() = %v, want the provider's surface format", d.TargetFormat())
	}

	d, err = NewHALDeviceFromProvider(&halProvider{device: device, queue: queue},
		WithTargetFormat(gputypes.TextureFormatBGRA8Unorm))
	if err != nil {
		t.Fatal(err)
	}
	if d.TargetFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("TargetFormat() = %v, want the option's format", d.TargetFormat())
	}

	_, err = NewHALDeviceFromProvider(&halProvider{device: nil, queue: queue})
	if !errors.Is(err, ErrNoHALAccess) {
		t.Errorf("nil HalDevice = %v, want ErrNoHALAccess", err)
	}
}

func TestFrameResourcesBindAtlasAndSampler(t *testing.T) {
	device, queue := createNoopDevice(t)
	d, err := NewHALDevice(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Destroy()
	if err := d.ensurePipeline(); err != nil {
		t.Fatalf("ensurePipeline() error: %v", err)
	}

	tex, err := d.CreateAtlasTexture(16, 16, FormatR8)
	if err != nil {
		t.Fatal(err)
	}
	defer d.DestroyTexture(tex)
	target := createTarget(t, device, 32, 32)

	data := EncodeInstances(nil, []Instance{{TopRight: mgl32.Vec2{4, 4}}})
	res, err := d.frameResources(target, tex.(*halTexture), data)
	if err != nil {
		t.Fatalf("frameResources() error: %v", err)
	}
	defer res.destroy(device)
	if res.bindGroup == nil || res.instanceBuf == nil || res.uniformBuf == nil {
		t.Errorf("frame resources incomplete: %+v", res)
	}
}
