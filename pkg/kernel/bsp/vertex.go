package bsp

import (
	"image/color"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a polygon corner with the attributes carried through clipping.
// Vertices are values; a split never lets two polygons share one.
type Vertex struct {
	Position v3.Vec
	Normal   v3.Vec
	UV       v2.Vec
	Color    color.NRGBA
}

// NewVertex returns a vertex with only position and normal set. The color
// defaults to opaque white so untextured geometry still renders.
func NewVertex(pos, normal v3.Vec) Vertex {
	return Vertex{
		Position: pos,
		Normal:   normal,
		Color:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Flip reverses the vertex normal.
func (v *Vertex) Flip() {
	v.Normal = v.Normal.MulScalar(-1)
}

// Interpolate returns the vertex at parameter t along the segment from v to
// other. Every attribute is interpolated linearly.
func (v Vertex) Interpolate(other Vertex, t float64) Vertex {
	return Vertex{
		Position: lerp3(v.Position, other.Position, t),
		Normal:   lerp3(v.Normal, other.Normal, t),
		UV:       v.UV.Add(other.UV.Sub(v.UV).MulScalar(t)),
		Color:    lerpColor(v.Color, other.Color, t),
	}
}

func lerp3(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	ch := func(x, y uint8) uint8 {
		f := float64(x) + (float64(y)-float64(x))*t
		return uint8(math.Max(0, math.Min(255, math.Round(f))))
	}
	return color.NRGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: ch(a.A, b.A)}
}

// compareVertex orders vertices by every attribute, position first. It is
// the total order used to deduplicate vertices when writing meshes.
func compareVertex(a, b Vertex) int {
	fa := [...]float64{
		a.Position.X, a.Position.Y, a.Position.Z,
		a.Normal.X, a.Normal.Y, a.Normal.Z,
		a.UV.X, a.UV.Y,
	}
	fb := [...]float64{
		b.Position.X, b.Position.Y, b.Position.Z,
		b.Normal.X, b.Normal.Y, b.Normal.Z,
		b.UV.X, b.UV.Y,
	}
	for i := range fa {
		if fa[i] < fb[i] {
			return -1
		}
		if fa[i] > fb[i] {
			return 1
		}
	}
	ca := uint32(a.Color.R)<<24 | uint32(a.Color.G)<<16 | uint32(a.Color.B)<<8 | uint32(a.Color.A)
	cb := uint32(b.Color.R)<<24 | uint32(b.Color.G)<<16 | uint32(b.Color.B)<<8 | uint32(b.Color.A)
	switch {
	case ca < cb:
		return -1
	case ca > cb:
		return 1
	}
	return 0
}
