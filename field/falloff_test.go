package field

import (
	"math"
	"testing"
)

func TestDotAlphaAt(t *testing.T) {
	red := Dot{
		Position: [2]float32{0, 0},
		Radius:   0.1,
		Hardness: 0.5,
		Color:    [4]float32{1, 0, 0, 1},
	}

	tests := []struct {
		name string
		dot  Dot
		x, y float32
		want float32
	}{
		{name: "center is opaque", dot: red, x: 0, y: 0, want: 1},
		{name: "inside hard core", dot: red, x: 0.04, y: 0, want: 1},
		{name: "on the rim", dot: red, x: 0.1, y: 0, want: 0},
		{name: "far outside", dot: red, x: 0.5, y: 0.5, want: 0},
		{
			name: "instance alpha scales coverage",
			dot:  Dot{Position: [2]float32{0, 0}, Radius: 0.1, Hardness: 0.5, Color: [4]float32{1, 0, 0, 0.5}},
			x:    0, y: 0,
			want: 0.5,
		},
		{
			name: "offset center",
			dot:  Dot{Position: [2]float32{-0.5, 0.25}, Radius: 0.2, Hardness: 0, Color: [4]float32{0, 1, 0, 1}},
			x:    -0.5, y: 0.25,
			want: 1,
		},
		{
			name: "hardness one keeps a hard disc",
			dot:  Dot{Position: [2]float32{0, 0}, Radius: 0.1, Hardness: 1, Color: [4]float32{1, 1, 1, 1}},
			x:    0.09, y: 0,
			want: 1,
		},
		{
			name: "hardness one ends at the rim",
			dot:  Dot{Position: [2]float32{0, 0}, Radius: 0.1, Hardness: 1, Color: [4]float32{1, 1, 1, 1}},
			x:    0.1, y: 0,
			want: 0,
		},
		{
			name: "hardness above one behaves like one",
			dot:  Dot{Position: [2]float32{0, 0}, Radius: 0.1, Hardness: 1.5, Color: [4]float32{1, 1, 1, 1}},
			x:    0.05, y: 0,
			want: 1,
		},
		{
			name: "zero radius never covers",
			dot:  Dot{Position: [2]float32{0, 0}, Radius: 0, Hardness: 0.5, Color: [4]float32{1, 1, 1, 1}},
			x:    0, y: 0,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dot.AlphaAt(tt.x, tt.y)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("AlphaAt(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDotFalloffIsMonotone(t *testing.T) {
	dot := Dot{
		Position: [2]float32{0, 0},
		Radius:   0.25,
		Hardness: 0.3,
		Color:    [4]float32{1, 1, 1, 1},
	}

	prev := dot.AlphaAt(0, 0)
	if prev != 1 {
		t.Fatalf("alpha at center = %v, want 1", prev)
	}

	for step := 1; step <= 100; step++ {
		x := float32(step) * dot.Radius / 100

		alpha := dot.AlphaAt(x, 0)
		if alpha > prev {
			t.Fatalf("alpha increased from %v to %v at distance %v", prev, alpha, x)
		}

		prev = alpha
	}

	if prev != 0 {
		t.Errorf("alpha on the rim = %v, want 0", prev)
	}
}

func TestDotCoversOnlyItsDisc(t *testing.T) {
	dot := Dot{
		Position: [2]float32{0.25, -0.5},
		Radius:   0.1,
		Hardness: 0.5,
		Color:    [4]float32{0, 0, 1, 1},
	}

	if !dot.Covers(0.25, -0.5) {
		t.Error("dot does not cover its own center")
	}

	if !dot.Covers(0.25+dot.Radius*0.9, -0.5) {
		t.Error("dot does not cover a point just inside its rim")
	}

	if dot.Covers(0.25+dot.Radius, -0.5) {
		t.Error("dot covers a point on its rim")
	}

	if dot.Covers(0, 0) {
		t.Error("dot covers a point far outside its disc")
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name           string
		edge0, edge1, x float32
		want           float32
	}{
		{"below edge0", 0.2, 0.8, 0.1, 0},
		{"at edge0", 0.2, 0.8, 0.2, 0},
		{"midpoint", 0.2, 0.8, 0.5, 0.5},
		{"at edge1", 0.2, 0.8, 0.8, 1},
		{"above edge1", 0.2, 0.8, 0.9, 1},
		{"degenerate below", 0.5, 0.5, 0.4, 0},
		{"degenerate above", 0.5, 0.5, 0.6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := smoothstep(tt.edge0, tt.edge1, tt.x)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("smoothstep(%v, %v, %v) = %v, want %v", tt.edge0, tt.edge1, tt.x, got, tt.want)
			}
		})
	}
}
