package field

import "math"

// AlphaAt returns the coverage alpha the compositor computes for this dot
// at the given point in normalized device coordinates, before blending.
// This mirrors the fragment shader falloff exactly and is what hit
// testing against a dot field should use.
func (d Dot) AlphaAt(x, y float32) float32 {
	if d.Radius <= 0 {
		return 0
	}

	dx := float64(x - d.Position[0])
	dy := float64(y - d.Position[1])
	dist := float32(math.Hypot(dx, dy)) / d.Radius

	// same edge clamp as the fragment shader, a hardness of 1 would
	// collapse both smoothstep edges
	hardness := min(d.Hardness, 0.999)

	return d.Color[3] * (1 - smoothstep(hardness, 1, dist))
}

// Covers reports whether the dot contributes any alpha at the given point.
func (d Dot) Covers(x, y float32) bool {
	return d.AlphaAt(x, y) > 0
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge0 >= edge1 {
		// degenerate edge, step function
		if x < edge0 {
			return 0
		}

		return 1
	}

	t := (x - edge0) / (edge1 - edge0)
	t = min(max(t, 0), 1)

	return t * t * (3 - 2*t)
}
