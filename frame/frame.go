// Package frame drives the two-stage dot pipeline once per host redraw:
// it refreshes the offscreen surface through the presentation bridge,
// then paints the bridge into the window surface pass.
package frame

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/oliverbestmann/dotfield/field"
	"github.com/oliverbestmann/dotfield/shell"
)

type Options struct {
	// window title, "dotfield" if empty
	Title string

	WindowWidth  int
	WindowHeight int

	// clear color of the window surface pass. Independent of the
	// offscreen background on purpose, a visibly different offscreen
	// background makes unpainted regions easy to spot.
	ClearColor *field.Color

	Compositor *field.CompositorOptions
}

// UpdateFunc runs once per frame before the offscreen render. Mutate the
// dot list here via Frame.Surface().SetDots.
type UpdateFunc func(f *Frame, input shell.Input) error

// Frame owns the window, the webgpu context and the bridge, and passes
// itself explicitly into the per-frame callback. All per-frame gpu work
// goes through the one queue owned by the context, in the fixed order
// prepare then paint.
type Frame struct {
	window     shell.Window
	ctx        *field.Context
	compositor *field.Compositor
	bridge     *field.Bridge

	clearColor    field.Color
	surfaceFormat wgpu.TextureFormat
	surfaceWidth  uint32
	surfaceHeight uint32

	stats FrameTimes
	start time.Time
}

// New opens a window, initializes webgpu against it and builds the
// compositor, one offscreen surface and the presentation bridge for the
// window's surface format.
func New(opts Options) (f *Frame, err error) {
	if opts.Title == "" {
		opts.Title = "dotfield"
	}

	if opts.WindowWidth == 0 {
		opts.WindowWidth = 1000
	}

	if opts.WindowHeight == 0 {
		opts.WindowHeight = 600
	}

	window, err := shell.NewWindow(opts.WindowWidth, opts.WindowHeight, opts.Title)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	defer func() {
		if err != nil {
			if f != nil {
				f.Close()
			} else {
				window.Terminate()
			}
		}
	}()

	ctx, err := field.New(window.SurfaceDescriptor())
	if err != nil {
		return nil, fmt.Errorf("initializing wgpu: %w", err)
	}

	f = &Frame{
		window:     window,
		ctx:        ctx,
		clearColor: field.ColorBlack,
		start:      time.Now(),
	}

	if opts.ClearColor != nil {
		f.clearColor = *opts.ClearColor
	}

	caps := ctx.Surface.GetCapabilities(ctx.Adapter)
	f.surfaceFormat = caps.Formats[0]

	width, height := window.GetSize()
	if err := f.configureSurface(width, height); err != nil {
		return f, err
	}

	f.compositor, err = field.NewCompositor(ctx, opts.Compositor)
	if err != nil {
		return f, fmt.Errorf("create compositor: %w", err)
	}

	surface, err := field.NewSurface(f.compositor)
	if err != nil {
		return f, fmt.Errorf("create offscreen surface: %w", err)
	}

	f.bridge, err = field.NewBridge(ctx, surface, f.surfaceFormat)
	if err != nil {
		surface.Release()
		return f, fmt.Errorf("create presentation bridge: %w", err)
	}

	return f, nil
}

func (f *Frame) Context() *field.Context {
	return f.ctx
}

// Surface returns the offscreen surface the bridge presents.
func (f *Frame) Surface() *field.Surface {
	return f.bridge.Surface()
}

func (f *Frame) Bridge() *field.Bridge {
	return f.bridge
}

func (f *Frame) Window() shell.Window {
	return f.window
}

// Run drives the redraw loop until the window closes or an error occurs.
func (f *Frame) Run(update UpdateFunc) error {
	return f.window.Run(func(input shell.Input) error {
		return f.renderOnce(update, input)
	})
}

func (f *Frame) renderOnce(update UpdateFunc, input shell.Input) error {
	if logStats := f.stats.Tick(); logStats {
		slog.Debug("Frame stats",
			slog.Float64("fps", f.stats.FPS()),
			slog.Duration("max", f.stats.MaxDuration),
		)
	}

	width, height := f.window.GetSize()
	if width == 0 || height == 0 {
		// minimized, nothing to paint
		return nil
	}

	if width != f.surfaceWidth || height != f.surfaceHeight {
		slog.Debug("Resize surface",
			slog.Int("width", int(width)),
			slog.Int("height", int(height)),
		)

		if err := f.configureSurface(width, height); err != nil {
			return fmt.Errorf("resize surface: %w", err)
		}
	}

	if update != nil {
		if err := update(f, input); err != nil {
			return fmt.Errorf("update: %w", err)
		}
	}

	elapsed := float32(time.Since(f.start).Seconds())
	if err := f.bridge.Prepare(f.ctx.Queue, elapsed); err != nil {
		return fmt.Errorf("prepare frame: %w", err)
	}

	surfaceTexture, err := f.ctx.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}

	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}

	defer view.Release()

	encoder, err := f.ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "Frame",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Frame",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: f.clearColor.ToWGPU(),
			},
		},
	})

	passGuard := field.NewReleaseGuard(pass)
	defer passGuard.Release()

	f.bridge.Paint(pass)

	pass.End()
	passGuard.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}

	defer cmdBuffer.Release()

	f.ctx.Submit(cmdBuffer)
	f.ctx.Surface.Present()

	return nil
}

func (f *Frame) configureSurface(width, height uint32) error {
	caps := f.ctx.Surface.GetCapabilities(f.ctx.Adapter)

	f.ctx.Surface.Configure(f.ctx.Adapter, f.ctx.Device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      f.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	})

	f.surfaceWidth = width
	f.surfaceHeight = height

	return nil
}

// Close tears the renderer down in reverse construction order.
func (f *Frame) Close() {
	if f.bridge != nil {
		f.bridge.Release()
		f.bridge = nil
	}

	if f.compositor != nil {
		f.compositor.Release()
		f.compositor = nil
	}

	if f.ctx != nil {
		f.ctx.Release()
		f.ctx = nil
	}

	if f.window != nil {
		f.window.Terminate()
		f.window = nil
	}
}
