package bsp

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Default tessellation of curved primitives.
const (
	DefaultSlices = 32
	DefaultStacks = 16
)

// cuboidFaces lists the corners of each face and its outward normal. Corner
// i sits at center + half * (±1, ±1, ±1) with bit 0 selecting +X, bit 1 +Y
// and bit 2 +Z.
var cuboidFaces = [6]struct {
	corners [4]int
	normal  v3.Vec
}{
	{[4]int{0, 4, 6, 2}, v3.Vec{X: -1}},
	{[4]int{1, 3, 7, 5}, v3.Vec{X: 1}},
	{[4]int{0, 1, 5, 4}, v3.Vec{Y: -1}},
	{[4]int{2, 6, 7, 3}, v3.Vec{Y: 1}},
	{[4]int{0, 2, 3, 1}, v3.Vec{Z: -1}},
	{[4]int{4, 5, 7, 6}, v3.Vec{Z: 1}},
}

// Cuboid returns an axis-aligned box of the given size centered on center,
// as six quads. Every size component must be positive.
func Cuboid(center, size v3.Vec, shared int) *Solid {
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		panic(fmt.Sprintf("bsp: cuboid size must be positive, got %v", size))
	}
	half := size.MulScalar(0.5)
	polys := make([]*Polygon, 0, len(cuboidFaces))
	for _, f := range cuboidFaces {
		vs := make([]Vertex, 4)
		for k, i := range f.corners {
			pos := v3.Vec{
				X: center.X + half.X*sign(i&1),
				Y: center.Y + half.Y*sign(i&2),
				Z: center.Z + half.Z*sign(i&4),
			}
			vs[k] = NewVertex(pos, f.normal)
		}
		polys = append(polys, MustPolygon(vs, shared))
	}
	return NewSolid(polys)
}

func sign(bit int) float64 {
	if bit != 0 {
		return 1
	}
	return -1
}

// Sphere returns a UV sphere around center with its poles on the Y axis.
// The caps are triangle fans; the rest are planar quads.
func Sphere(center v3.Vec, radius float64, slices, stacks int, shared int) *Solid {
	if !(radius > 0) {
		panic(fmt.Sprintf("bsp: sphere radius must be positive, got %v", radius))
	}
	if slices < 3 || stacks < 2 {
		panic(fmt.Sprintf("bsp: sphere needs slices >= 3 and stacks >= 2, got %d, %d", slices, stacks))
	}
	vertex := func(theta, phi float64) Vertex {
		theta *= 2 * math.Pi
		phi *= math.Pi
		dir := v3.Vec{
			X: math.Cos(theta) * math.Sin(phi),
			Y: math.Cos(phi),
			Z: math.Sin(theta) * math.Sin(phi),
		}
		return NewVertex(center.Add(dir.MulScalar(radius)), dir)
	}
	fs, ft := float64(slices), float64(stacks)
	polys := make([]*Polygon, 0, slices*stacks)
	for i := 0; i < slices; i++ {
		for j := 0; j < stacks; j++ {
			vs := make([]Vertex, 0, 4)
			vs = append(vs, vertex(float64(i)/fs, float64(j)/ft))
			if j > 0 {
				vs = append(vs, vertex(float64(i+1)/fs, float64(j)/ft))
			}
			if j < stacks-1 {
				vs = append(vs, vertex(float64(i+1)/fs, float64(j+1)/ft))
			}
			vs = append(vs, vertex(float64(i)/fs, float64(j+1)/ft))
			polys = append(polys, MustPolygon(vs, shared))
		}
	}
	return NewSolid(polys)
}

// Cylinder returns a cylinder whose axis runs from start to end. Each slice
// contributes a bottom cap triangle, a side quad and a top cap triangle.
func Cylinder(start, end v3.Vec, radius float64, slices int, shared int) *Solid {
	ray := end.Sub(start)
	if !(radius > 0) || !(ray.Length() > 0) {
		panic(fmt.Sprintf("bsp: cylinder needs positive radius and length, got r=%v len=%v", radius, ray.Length()))
	}
	if slices < 3 {
		panic(fmt.Sprintf("bsp: cylinder needs slices >= 3, got %d", slices))
	}
	axisZ := ray.Normalize()
	ref := v3.Vec{Y: 1}
	if math.Abs(axisZ.Y) > 0.5 {
		ref = v3.Vec{X: 1}
	}
	axisX := ref.Cross(axisZ).Normalize()
	axisY := axisX.Cross(axisZ).Normalize()
	bottom := NewVertex(start, axisZ.MulScalar(-1))
	top := NewVertex(end, axisZ)

	// point returns a rim vertex. blend is -1 for the bottom cap, 1 for the
	// top cap and 0 for the side wall.
	point := func(stack, slice, blend float64) Vertex {
		angle := slice * 2 * math.Pi
		out := axisX.MulScalar(math.Cos(angle)).Add(axisY.MulScalar(math.Sin(angle)))
		pos := start.Add(ray.MulScalar(stack)).Add(out.MulScalar(radius))
		normal := out.MulScalar(1 - math.Abs(blend)).Add(axisZ.MulScalar(blend))
		return NewVertex(pos, normal)
	}
	polys := make([]*Polygon, 0, 3*slices)
	for i := 0; i < slices; i++ {
		t0 := float64(i) / float64(slices)
		t1 := float64(i+1) / float64(slices)
		polys = append(polys,
			MustPolygon([]Vertex{bottom, point(0, t0, -1), point(0, t1, -1)}, shared),
			MustPolygon([]Vertex{point(0, t1, 0), point(0, t0, 0), point(1, t0, 0), point(1, t1, 0)}, shared),
			MustPolygon([]Vertex{top, point(1, t1, 1), point(1, t0, 1)}, shared),
		)
	}
	return NewSolid(polys)
}
