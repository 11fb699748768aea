package field

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed compositor.wgsl
var compositorShaderCode string

// DefaultTargetSize is the edge length of the square offscreen render
// target allocated for each Surface.
const DefaultTargetSize = 1024

// source-over compositing: srcAlpha, 1-srcAlpha, add
var blendStateSourceOver = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

type CompositorOptions struct {
	// edge length of the offscreen render targets, DefaultTargetSize if zero
	Size uint32

	// texture format of the offscreen render targets,
	// TextureFormatRGBA8UnormSrgb if undefined
	Format wgpu.TextureFormat

	// clear color of the offscreen pass. The zero value keeps the
	// default, a solid green that makes unpainted target regions obvious.
	Background *Color
}

func (opts *CompositorOptions) withDefaults() CompositorOptions {
	var resolved CompositorOptions
	if opts != nil {
		resolved = *opts
	}

	if resolved.Size == 0 {
		resolved.Size = DefaultTargetSize
	}

	if resolved.Format == wgpu.TextureFormatUndefined {
		resolved.Format = wgpu.TextureFormatRGBA8UnormSrgb
	}

	if resolved.Background == nil {
		background := ColorGreen
		resolved.Background = &background
	}

	return resolved
}

// Compositor holds everything the offscreen dot passes share: the device
// and queue handles, the quad vertex buffer, the compositing pipeline and
// the render target descriptor. One Compositor is shared read-only by any
// number of Surface instances; only instance and texture state lives on
// the individual Surface.
type Compositor struct {
	ctx *Context

	bufQuad   *wgpu.Buffer
	pipelines *PipelineCache[dotPipelineConfig]
	pipeline  CachedPipeline

	textureDesc wgpu.TextureDescriptor

	// clear color of the offscreen pass. Deliberately independent of any
	// presentation clear color.
	Background Color
}

// NewCompositor builds the shared compositing state. Shader or pipeline
// construction failures are configuration errors and fail construction.
func NewCompositor(ctx *Context, opts *CompositorOptions) (*Compositor, error) {
	if ctx == nil || ctx.Device == nil {
		return nil, errors.New("compositor needs a device")
	}

	resolved := opts.withDefaults()

	bufQuad, err := ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Compositor.Quad",
		Contents: wgpu.ToBytes(quadVertices[:]),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("create quad buffer: %w", err)
	}

	c := &Compositor{
		ctx:        ctx,
		bufQuad:    bufQuad,
		Background: *resolved.Background,

		textureDesc: wgpu.TextureDescriptor{
			Label: "Offscreen.Target",
			Size: wgpu.Extent3D{
				Width:              resolved.Size,
				Height:             resolved.Size,
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        resolved.Format,
			Usage: wgpu.TextureUsageRenderAttachment |
				wgpu.TextureUsageTextureBinding |
				wgpu.TextureUsageCopySrc,
		},
	}

	c.pipelines = NewPipelineCache[dotPipelineConfig](ctx)

	// build the pipeline for the target format now, a broken shader
	// should fail construction rather than the first frame
	c.pipeline, err = c.pipelines.Get(dotPipelineConfig{TargetFormat: resolved.Format})
	if err != nil {
		bufQuad.Release()
		return nil, fmt.Errorf("build compositor pipeline: %w", err)
	}

	return c, nil
}

func (c *Compositor) Context() *Context {
	return c.ctx
}

// TargetSize returns the edge length of the offscreen render targets.
func (c *Compositor) TargetSize() uint32 {
	return c.textureDesc.Size.Width
}

// TargetFormat returns the texture format of the offscreen render targets.
func (c *Compositor) TargetFormat() wgpu.TextureFormat {
	return c.textureDesc.Format
}

func (c *Compositor) Release() {
	if c.pipelines != nil {
		c.pipelines.Release()
		c.pipelines = nil
	}

	c.pipeline = CachedPipeline{}

	if c.bufQuad != nil {
		c.bufQuad.Release()
		c.bufQuad = nil
	}
}

type dotPipelineConfig struct {
	TargetFormat wgpu.TextureFormat
}

func (conf dotPipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline for dot compositing",
		slog.Any("format", conf.TargetFormat),
	)

	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Compositor.ShaderSource",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: compositorShaderCode},
	})
	if err != nil {
		return nil, fmt.Errorf("compile compositor shader: %w", err)
	}

	defer shader.Release()

	// the fragment shader reads from instance attributes only
	layout, err := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "Compositor.PipelineLayout",
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	defer layout.Release()

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("Compositor.%s", conf.TargetFormat),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				quadVertexLayout(),
				dotInstanceLayout(),
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &blendStateSourceOver,
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
	}

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build compositor pipeline: %w", err)
	}

	return pipeline, nil
}
