package shell

import "github.com/cogentcore/webgpu/wgpu"

// Window is the host surface the frame driver renders into. The desktop
// implementation sits on glfw; the interface exists so tests and future
// hosts can drive the loop without a real window.
type Window interface {
	GetSize() (uint32, uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Run(render func(input Input) error) error
	RequestClose()
	Terminate()
}
