package field

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed bridge.wgsl
var bridgeShaderCode string

// Uniforms is the per-frame uniform record of the presentation pass.
// Uniform bindings require 16 byte size alignment, hence the padding.
type Uniforms struct {
	// number of completed Prepare calls
	Frame uint32

	// seconds since bridge construction
	Time float32

	_ [2]uint32
}

const uniformsSize = uint64(unsafe.Sizeof(Uniforms{}))

// Bridge presents one offscreen Surface inside a render pass supplied by
// the host each frame. It owns the Surface it wraps, a small uniform
// buffer and the two bind groups of the presentation pipeline. The target
// format is fixed at construction; painting into a pass with a different
// attachment format is a pipeline mismatch, which is why an unusable
// format is rejected here and not at paint time.
type Bridge struct {
	ctx     *Context
	surface *Surface

	pipeline         *wgpu.RenderPipeline
	uniformBindGroup *wgpu.BindGroup
	textureBindGroup *wgpu.BindGroup
	bufUniforms      *wgpu.Buffer

	uniforms Uniforms
	format   wgpu.TextureFormat
}

func validateTargetFormat(format wgpu.TextureFormat) error {
	if format == wgpu.TextureFormatUndefined {
		return errors.New("presentation target format is undefined")
	}

	return nil
}

// NewBridge builds the presentation pipeline for the given target format
// and takes ownership of the surface.
func NewBridge(ctx *Context, surface *Surface, format wgpu.TextureFormat) (b *Bridge, err error) {
	if err := validateTargetFormat(format); err != nil {
		return nil, err
	}

	defer func() {
		if err != nil && b != nil {
			b.Release()
			b = nil
		}
	}()

	b = &Bridge{
		ctx:     ctx,
		surface: surface,
		format:  format,
	}

	shader, err := ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Bridge.ShaderSource",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: bridgeShaderCode},
	})
	if err != nil {
		return b, fmt.Errorf("compile presentation shader: %w", err)
	}

	defer shader.Release()

	uniformLayout, err := ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Bridge.UniformLayout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: false,
					MinBindingSize:   uniformsSize,
				},
			},
		},
	})
	if err != nil {
		return b, fmt.Errorf("create uniform bind group layout: %w", err)
	}

	defer uniformLayout.Release()

	textureLayout, err := ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Bridge.TextureLayout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					Multisampled:  false,
					ViewDimension: wgpu.TextureViewDimension2D,
					SampleType:    wgpu.TextureSampleTypeFloat,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				// must stay filtering as long as the texture entry
				// above is a filterable float
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return b, fmt.Errorf("create texture bind group layout: %w", err)
	}

	defer textureLayout.Release()

	pipelineLayout, err := ctx.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Bridge.PipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{uniformLayout, textureLayout},
	})
	if err != nil {
		return b, fmt.Errorf("create pipeline layout: %w", err)
	}

	defer pipelineLayout.Release()

	slog.Info("Create presentation pipeline", slog.Any("format", format))

	b.pipeline, err = ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("Bridge.%s", format),
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return b, fmt.Errorf("build presentation pipeline: %w", err)
	}

	// zeroed so that a Paint before the first Prepare sees defined
	// (stale but valid) uniform values
	b.bufUniforms, err = ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Bridge.Uniforms",
		Contents: AsByteSlice(&b.uniforms),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return b, fmt.Errorf("create uniform buffer: %w", err)
	}

	b.uniformBindGroup, err = ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Bridge.Uniforms",
		Layout: uniformLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.bufUniforms,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return b, fmt.Errorf("create uniform bind group: %w", err)
	}

	b.textureBindGroup, err = ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Bridge.Texture",
		Layout: textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: surface.View(),
			},
			{
				Binding: 1,
				Sampler: surface.Sampler(),
			},
		},
	})
	if err != nil {
		return b, fmt.Errorf("create texture bind group: %w", err)
	}

	return b, nil
}

// Surface returns the offscreen surface this bridge presents.
func (b *Bridge) Surface() *Surface {
	return b.surface
}

// TargetFormat returns the render pass attachment format Paint expects.
func (b *Bridge) TargetFormat() wgpu.TextureFormat {
	return b.format
}

// Prepare refreshes the offscreen texture and uploads the per-frame
// uniform values. Must be called before Paint each frame; painting
// without a Prepare shows the previous frame's dots.
func (b *Bridge) Prepare(queue *wgpu.Queue, elapsed float32) error {
	if err := b.surface.Render(); err != nil {
		return fmt.Errorf("render offscreen surface: %w", err)
	}

	b.uniforms.Frame++
	b.uniforms.Time = elapsed

	if err := queue.WriteBuffer(b.bufUniforms, 0, AsByteSlice(&b.uniforms)); err != nil {
		return fmt.Errorf("update uniform buffer: %w", err)
	}

	return nil
}

// Paint draws the offscreen texture as a full screen quad into the given
// render pass. The pass attachment must match TargetFormat. Paint never
// allocates gpu resources.
func (b *Bridge) Paint(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.uniformBindGroup, nil)
	pass.SetBindGroup(1, b.textureBindGroup, nil)
	pass.Draw(quadVertexCount, 1, 0, 0)
}

func (b *Bridge) Release() {
	if b.textureBindGroup != nil {
		b.textureBindGroup.Release()
		b.textureBindGroup = nil
	}

	if b.uniformBindGroup != nil {
		b.uniformBindGroup.Release()
		b.uniformBindGroup = nil
	}

	if b.bufUniforms != nil {
		b.bufUniforms.Release()
		b.bufUniforms = nil
	}

	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}

	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
}
