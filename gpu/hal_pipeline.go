package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// compileShader compiles WGSL to little-endian SPIR-V words.
func compileShader(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile sdf_text shader: %w", err)
	}
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

// ensurePipeline creates the shader, layouts, sampler and render pipeline
// if they don't exist yet.
func (d *HALDevice) ensurePipeline() error {
	if d.pipeline != nil {
		return nil
	}
	if err := d.createPipeline(); err != nil {
		d.Destroy()
		return err
	}
	slogger().Debug("gpu: sdf_text pipeline created", "format", d.opts.targetFormat)
	return nil
}

func (d *HALDevice) createPipeline() error {
	code, err := compileShader(sdfTextShaderSource)
	if err != nil {
		return err
	}
	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sdf_text_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("gpu: create sdf_text shader module: %w", err)
	}
	d.shader = shader

	// Bind group layout:
	//   Binding 0: Screen (uniform buffer, vertex)
	//   Binding 1: atlas texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sdf_text_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create sdf_text bind group layout: %w", err)
	}
	d.layout = layout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sdf_text_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.layout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create sdf_text pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	// Linear filtering keeps the distance field smooth between texels.
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sdf_text_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("gpu: create sdf_text sampler: %w", err)
	}
	d.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sdf_text_pipeline",
		Layout: d.pipeLayout,
		Vertex: hal.VertexState{
			Module:     d.shader,
			EntryPoint: "vs_main",
			Buffers:    instanceLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     d.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    d.opts.targetFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create sdf_text pipeline: %w", err)
	}
	d.pipeline = pipeline
	return nil
}

// instanceLayout returns the per-instance vertex buffer layout.
// Matches InstanceInput in sdf_text.wgsl.
func instanceLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: InstanceSize,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // bottom_left
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // top_right
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2}, // tex_bottom_left
				{Format: gputypes.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 3}, // tex_top_right
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4}, // color
				{Format: gputypes.VertexFormatFloat32x2, Offset: 48, ShaderLocation: 5}, // thresholds
			},
		},
	}
}

// frameResources holds per-draw GPU objects.
type frameResources struct {
	instanceBuf hal.Buffer
	uniformBuf  hal.Buffer
	bindGroup   hal.BindGroup
}

func (r *frameResources) destroy(device hal.Device) {
	if r.bindGroup != nil {
		device.DestroyBindGroup(r.bindGroup)
	}
	if r.uniformBuf != nil {
		device.DestroyBuffer(r.uniformBuf)
	}
	if r.instanceBuf != nil {
		device.DestroyBuffer(r.instanceBuf)
	}
}

// makeScreenUniform encodes the target size for the vertex stage.
func makeScreenUniform(width, height int) []byte {
	buf := make([]byte, screenUniformSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(width)))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(height)))
	return buf
}

func (d *HALDevice) frameResources(target *HALTarget, tex *halTexture, instances []byte) (*frameResources, error) {
	res := &frameResources{}

	instanceBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sdf_text_instances",
		Size:  uint64(len(instances)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance buffer: %w", err)
	}
	res.instanceBuf = instanceBuf
	d.queue.WriteBuffer(instanceBuf, 0, instances)

	uniformBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sdf_text_screen",
		Size:  screenUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		res.destroy(d.device)
		return nil, fmt.Errorf("gpu: create screen uniform: %w", err)
	}
	res.uniformBuf = uniformBuf
	d.queue.WriteBuffer(uniformBuf, 0, makeScreenUniform(target.Width, target.Height))

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sdf_text_bind_group",
		Layout: d.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: screenUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: tex.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: d.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		res.destroy(d.device)
		return nil, fmt.Errorf("gpu: create sdf_text bind group: %w", err)
	}
	res.bindGroup = bindGroup
	return res, nil
}

// encodeAndSubmit records one render pass drawing every batch and waits
// for the GPU to finish it.
func (d *HALDevice) encodeAndSubmit(target *HALTarget, res *frameResources, batches [][]Instance) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "sdf_text_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("sdf_text"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "sdf_text_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:    target.View,
				LoadOp:  gputypes.LoadOpLoad,
				StoreOp: gputypes.StoreOpStore,
			},
		},
	})
	rp.SetPipeline(d.pipeline)
	rp.SetBindGroup(0, res.bindGroup, nil)
	rp.SetVertexBuffer(0, res.instanceBuf, 0)

	first := uint32(0)
	for _, b := range batches {
		if len(b) == 0 {
			continue
		}
		n := uint32(len(b)) //nolint:gosec // bounded by the renderer's instance cap
		rp.Draw(quadVertexCount, n, 0, first)
		first += n
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, submitTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for frame: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("gpu: frame not finished after %v", submitTimeout)
	}
	return nil
}
