package field

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is one offscreen compositing target. It owns its render target
// texture, the view and sampler the presentation pass reads it through,
// and the instance buffer holding the current dot list. The expensive
// pipeline state is shared through the Compositor.
type Surface struct {
	comp *Compositor

	dots         []Dot
	bufInstances *wgpu.Buffer
	capacity     int

	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

// NewSurface allocates the render target for one offscreen surface. The
// target is cleared once so that sampling it before the first Render
// yields the background color instead of garbage.
func NewSurface(comp *Compositor) (s *Surface, err error) {
	defer func() {
		if err != nil && s != nil {
			s.Release()
			s = nil
		}
	}()

	s = &Surface{comp: comp}

	s.texture, err = comp.ctx.CreateTexture(&comp.textureDesc)
	if err != nil {
		return s, fmt.Errorf("create render target: %w", err)
	}

	s.view, err = s.texture.CreateView(nil)
	if err != nil {
		return s, fmt.Errorf("create render target view: %w", err)
	}

	s.sampler, err = CachedSampler(comp.ctx.Device, offscreenSamplerDesc())
	if err != nil {
		return s, err
	}

	if err := s.Render(); err != nil {
		return s, fmt.Errorf("clear render target: %w", err)
	}

	return s, nil
}

// SetDots replaces the dot list and re-uploads the instance buffer. The
// buffer is recreated when the list outgrows its capacity, otherwise the
// full contents are rewritten in place. Either way the buffer matches the
// list exactly before the next Render.
func (s *Surface) SetDots(dots []Dot) error {
	s.dots = append(s.dots[:0], dots...)

	if len(dots) == 0 {
		return nil
	}

	if len(dots) > s.capacity {
		if s.bufInstances != nil {
			s.bufInstances.Release()
			s.bufInstances = nil
		}

		capacity := max(len(dots), s.capacity*2, 64)

		slog.Debug("Grow instance buffer",
			slog.Int("dotCount", len(dots)),
			slog.Int("capacity", capacity),
		)

		buf, err := s.comp.ctx.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Surface.Instances",
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			Size:  uint64(capacity) * dotSize(),
		})
		if err != nil {
			return fmt.Errorf("create instance buffer: %w", err)
		}

		s.bufInstances = buf
		s.capacity = capacity
	}

	if err := s.comp.ctx.WriteBuffer(s.bufInstances, 0, dotBytes(s.dots)); err != nil {
		return fmt.Errorf("upload instance buffer: %w", err)
	}

	return nil
}

// Dots returns the current dot list. The slice is owned by the surface,
// callers must go through SetDots to change it.
func (s *Surface) Dots() []Dot {
	return s.dots
}

// Render composites the current dot list into the owned render target.
// The target is cleared to the compositor background first; with an empty
// dot list the pass degenerates to just that clear.
func (s *Surface) Render() error {
	ctx := s.comp.ctx

	encoder, err := ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "Surface.Render",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Surface.Render",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       s.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: s.comp.Background.ToWGPU(),
			},
		},
	})

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	if len(s.dots) > 0 {
		pass.SetPipeline(s.comp.pipeline.Pipeline)
		pass.SetVertexBuffer(0, s.comp.bufQuad, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, s.bufInstances, 0, uint64(len(s.dots))*dotSize())
		pass.Draw(quadVertexCount, uint32(len(s.dots)), 0, 0)
	}

	pass.End()
	passGuard.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}

	defer cmdBuffer.Release()

	ctx.Submit(cmdBuffer)

	return nil
}

// View returns the texture view the presentation pass binds.
func (s *Surface) View() *wgpu.TextureView {
	return s.view
}

// Sampler returns the sampler the presentation pass binds. The sampler is
// shared through the sampler cache.
func (s *Surface) Sampler() *wgpu.Sampler {
	return s.sampler
}

func (s *Surface) Size() uint32 {
	return s.comp.TargetSize()
}

func (s *Surface) Format() wgpu.TextureFormat {
	return s.comp.TargetFormat()
}

// ReadPixels copies the render target contents back to the CPU and
// returns them as tightly packed rgba bytes, row by row. This blocks
// until the GPU has finished all submitted work on the target.
func (s *Surface) ReadPixels() ([]byte, error) {
	size := s.Size()
	region := RectangleFromXYWH[uint32](0, 0, size, size)

	return s.ReadPixelsFromRect(region)
}

func (s *Surface) ReadPixelsFromRect(region Rectangle2u) ([]byte, error) {
	full := RectangleFromXYWH[uint32](0, 0, s.Size(), s.Size())
	if region.Empty() || !full.Contains(region) {
		return nil, fmt.Errorf("read region %s not in texture region %s", region, full)
	}

	ctx := s.comp.ctx

	// row stride of buffer copies must be 256 byte aligned
	rowBytes := region.Width() * 4
	stride := (rowBytes + 255) &^ 255
	bufSize := uint64(stride) * uint64(region.Height())

	readback, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Surface.Readback",
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  bufSize,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}

	defer readback.Release()

	encoder, err := ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "Surface.Readback",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  s.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: region.MinX, Y: region.MinY},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: readback,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  stride,
				RowsPerImage: region.Height(),
			},
		},
		&wgpu.Extent3D{
			Width:              region.Width(),
			Height:             region.Height(),
			DepthOrArrayLayers: 1,
		},
	)

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish command encoder: %w", err)
	}

	defer cmdBuffer.Release()

	ctx.Submit(cmdBuffer)

	var mapErr error
	err = readback.MapAsync(wgpu.MapModeRead, 0, bufSize, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map readback buffer: status %v", status)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}

	ctx.Poll(true, nil)

	if mapErr != nil {
		return nil, mapErr
	}

	defer readback.Unmap()

	mapped := readback.GetMappedRange(0, uint(bufSize))
	if mapped == nil {
		return nil, errors.New("readback buffer has no mapped range")
	}

	// drop the stride padding
	pixels := make([]byte, uint64(rowBytes)*uint64(region.Height()))
	for y := uint32(0); y < region.Height(); y++ {
		src := mapped[y*stride:][:rowBytes]
		copy(pixels[y*rowBytes:], src)
	}

	return pixels, nil
}

func (s *Surface) Release() {
	if s.bufInstances != nil {
		s.bufInstances.Release()
		s.bufInstances = nil
	}

	if s.view != nil {
		s.view.Release()
		s.view = nil
	}

	if s.texture != nil {
		s.texture.Release()
		s.texture = nil
	}

	// sampler is owned by the sampler cache
	s.sampler = nil
}
