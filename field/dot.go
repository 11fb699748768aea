package field

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// Dot describes a single soft circular sprite. Position is in normalized
// device coordinates, radius in the same units. Hardness selects where the
// edge falloff starts: 0 is a fully soft dot, values towards 1 give a hard
// rim. Color is straight (non premultiplied) rgba.
type Dot struct {
	Position [2]float32
	Radius   float32
	Hardness float32
	Color    [4]float32
}

type quadVertex struct {
	Position [2]float32
}

// quad covering the unit square, as two ccw triangles
var quadVertices = [6]quadVertex{
	{Position: [2]float32{0, 0}},
	{Position: [2]float32{1, 0}},
	{Position: [2]float32{1, 1}},
	{Position: [2]float32{1, 1}},
	{Position: [2]float32{0, 1}},
	{Position: [2]float32{0, 0}},
}

const quadVertexCount = uint32(len(quadVertices))

func quadVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(quadVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				// quad corner
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         0,
				ShaderLocation: 0,
			},
		},
	}
}

func dotInstanceLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(Dot{})),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{
				// center position
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         uint64(unsafe.Offsetof(Dot{}.Position)),
				ShaderLocation: 1,
			},
			{
				// radius
				Format:         wgpu.VertexFormatFloat32,
				Offset:         uint64(unsafe.Offsetof(Dot{}.Radius)),
				ShaderLocation: 2,
			},
			{
				// hardness
				Format:         wgpu.VertexFormatFloat32,
				Offset:         uint64(unsafe.Offsetof(Dot{}.Hardness)),
				ShaderLocation: 3,
			},
			{
				// color
				Format:         wgpu.VertexFormatFloat32x4,
				Offset:         uint64(unsafe.Offsetof(Dot{}.Color)),
				ShaderLocation: 4,
			},
		},
	}
}

// dotSize is the gpu-side stride of one dot instance.
func dotSize() uint64 {
	return uint64(unsafe.Sizeof(Dot{}))
}

// dotBytes returns the raw instance buffer contents for the given dots.
// An empty list encodes to an empty slice.
func dotBytes(dots []Dot) []byte {
	if len(dots) == 0 {
		return nil
	}

	return wgpu.ToBytes(dots)
}
