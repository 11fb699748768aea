package shell

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/profile"
)

type glfwWindow struct {
	win   *glfw.Window
	prof  interface{ Stop() }
	input inputState
}

// NewWindow creates a glfw window suitable as a webgpu surface. Set
// DOTFIELD_PROFILE=1 to record a CPU profile for the lifetime of the
// window.
func NewWindow(width, height int, title string) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{win: window}

	if os.Getenv("DOTFIELD_PROFILE") == "1" {
		w.prof = profile.Start(profile.CPUProfile)
	}

	configureInput(window, &w.input)

	return w, nil
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetSize()
	return uint32(width), uint32(height)
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) RequestClose() {
	g.win.SetShouldClose(true)
}

func (g *glfwWindow) Terminate() {
	if g.prof != nil {
		g.prof.Stop()
	}

	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) Run(render func(input Input) error) error {
	for !g.win.ShouldClose() {
		g.input.nextTick()
		glfw.PollEvents()

		if err := render(g.input.snapshot()); err != nil {
			return err
		}
	}

	return nil
}

func configureInput(window *glfw.Window, input *inputState) {
	window.SetKeyCallback(func(_win *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}

		key := keyOf(glfwKey)
		if key == KeyUnknown {
			return
		}

		switch action {
		case glfw.Press:
			input.press(key)

		case glfw.Release:
			input.release(key)
		}
	})
}

func keyOf(glfwKey glfw.Key) Key {
	switch glfwKey {
	case glfw.KeySpace:
		return KeySpace
	case glfw.KeyEscape:
		return KeyEscape
	case glfw.KeyP:
		return KeyP
	default:
		return KeyUnknown
	}
}
