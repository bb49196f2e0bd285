// Package gpu is the graphics side of SDF text rendering: atlas textures,
// region uploads and instanced quad draws.
//
// The Device interface is what the renderer talks to. Two devices ship
// with the package:
//
//   - HALDevice drives github.com/gogpu/wgpu/hal. It owns an instanced
//     render pipeline compiled from WGSL to SPIR-V with naga, draws six
//     vertices per Instance and samples the single-channel atlas with a
//     linear sampler. Build it from a hal device and queue, or from a host
//     gpucontext.DeviceProvider that exposes HAL access.
//   - SoftwareDevice evaluates the same shading on the CPU into an
//     *image.RGBA. It needs no GPU and is used for tests and offline output.
//
// Screen coordinates are in pixels with the origin at the bottom-left of
// the target and y pointing up.
package gpu
