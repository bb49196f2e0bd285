package sdftext

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/sdftext/gpu"
)

func TestRendererOnHALDevice(t *testing.T) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	defer instance.Destroy()
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		t.Fatal("no noop adapters")
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer open.Device.Destroy()

	dev, err := gpu.NewHALDevice(open.Device, open.Queue)
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Destroy()

	r, err := New(dev, WithAtlasSize(128, 128))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	fake := newFakeRasterizer()
	r.AddRasterizer("fake", fake)
	r.RenderText("GPU", "fake", 10, mgl32.Vec2{2, 2}, DefaultStyle())

	if st := r.Stats(); st.Uploads != 1 {
		t.Errorf("Uploads = %d, want 1", st.Uploads)
	}
	// A software target is not a valid HAL target.
	if r.Present(gpu.NewImageTarget(8, 8)) {
		t.Error("Present() to an image target on a HAL device = true")
	}
}
