package field

import (
	"testing"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestDotLayout(t *testing.T) {
	if got, want := unsafe.Sizeof(Dot{}), uintptr(32); got != want {
		t.Fatalf("sizeof(Dot) = %d, want %d", got, want)
	}

	layout := dotInstanceLayout()

	if layout.ArrayStride != uint64(unsafe.Sizeof(Dot{})) {
		t.Errorf("ArrayStride = %d, want %d", layout.ArrayStride, unsafe.Sizeof(Dot{}))
	}

	if layout.StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("StepMode = %v, want instance stepping", layout.StepMode)
	}

	tests := []struct {
		name     string
		format   wgpu.VertexFormat
		offset   uint64
		location uint32
	}{
		{"position", wgpu.VertexFormatFloat32x2, uint64(unsafe.Offsetof(Dot{}.Position)), 1},
		{"radius", wgpu.VertexFormatFloat32, uint64(unsafe.Offsetof(Dot{}.Radius)), 2},
		{"hardness", wgpu.VertexFormatFloat32, uint64(unsafe.Offsetof(Dot{}.Hardness)), 3},
		{"color", wgpu.VertexFormatFloat32x4, uint64(unsafe.Offsetof(Dot{}.Color)), 4},
	}

	if len(layout.Attributes) != len(tests) {
		t.Fatalf("attribute count = %d, want %d", len(layout.Attributes), len(tests))
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := layout.Attributes[i]

			if attr.Format != tt.format {
				t.Errorf("Format = %v, want %v", attr.Format, tt.format)
			}

			if attr.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", attr.Offset, tt.offset)
			}

			if attr.ShaderLocation != tt.location {
				t.Errorf("ShaderLocation = %d, want %d", attr.ShaderLocation, tt.location)
			}
		})
	}
}

func TestQuadLayout(t *testing.T) {
	layout := quadVertexLayout()

	if layout.ArrayStride != 8 {
		t.Errorf("ArrayStride = %d, want 8", layout.ArrayStride)
	}

	if layout.StepMode != wgpu.VertexStepModeVertex {
		t.Errorf("StepMode = %v, want vertex stepping", layout.StepMode)
	}

	if len(layout.Attributes) != 1 || layout.Attributes[0].ShaderLocation != 0 {
		t.Errorf("quad layout must have one attribute at location 0, got %+v", layout.Attributes)
	}

	if quadVertexCount != 6 {
		t.Errorf("quadVertexCount = %d, want 6", quadVertexCount)
	}

	// the quad must cover the unit square: both triangles share the
	// (1,1) and (0,0) corners
	if quadVertices[2] != quadVertices[3] || quadVertices[0] != quadVertices[5] {
		t.Errorf("quad triangles do not form a closed unit square: %+v", quadVertices)
	}
}

func TestDotBytes(t *testing.T) {
	tests := []struct {
		name string
		dots []Dot
	}{
		{name: "empty", dots: nil},
		{name: "single", dots: []Dot{
			{Position: [2]float32{0.5, -0.25}, Radius: 0.1, Hardness: 0.5, Color: [4]float32{1, 0, 0, 1}},
		}},
		{name: "many", dots: make([]Dot, 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := dotBytes(tt.dots)

			want := len(tt.dots) * int(dotSize())
			if len(raw) != want {
				t.Fatalf("len(dotBytes) = %d, want %d", len(raw), want)
			}

			if len(tt.dots) == 0 {
				return
			}

			// reinterpreting the bytes must give back the input
			decoded := unsafe.Slice((*Dot)(unsafe.Pointer(&raw[0])), len(tt.dots))
			for i := range tt.dots {
				if decoded[i] != tt.dots[i] {
					t.Errorf("dot %d = %+v, want %+v", i, decoded[i], tt.dots[i])
				}
			}
		})
	}
}

func TestAsByteSlice(t *testing.T) {
	value := Uniforms{Frame: 7, Time: 1.5}

	raw := AsByteSlice(&value)
	if len(raw) != int(unsafe.Sizeof(value)) {
		t.Fatalf("len = %d, want %d", len(raw), unsafe.Sizeof(value))
	}

	decoded := *(*Uniforms)(unsafe.Pointer(&raw[0]))
	if decoded != value {
		t.Errorf("decoded = %+v, want %+v", decoded, value)
	}
}
