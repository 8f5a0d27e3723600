package kernel

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which design graph part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Volume returns the signed volume enclosed by the triangles. A closed mesh
// with outward, counter-clockwise winding has a positive volume.
func (m *Mesh) Volume() float64 {
	var sum float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.vertex(m.Indices[i])
		b := m.vertex(m.Indices[i+1])
		c := m.vertex(m.Indices[i+2])
		// a · (b × c)
		sum += a[0]*(b[1]*c[2]-b[2]*c[1]) +
			a[1]*(b[2]*c[0]-b[0]*c[2]) +
			a[2]*(b[0]*c[1]-b[1]*c[0])
	}
	return sum / 6
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh
// returns zero bounds.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for k := 0; k < 3; k++ {
		min[k] = math.Inf(1)
		max[k] = math.Inf(-1)
	}
	for i := 0; i < m.VertexCount(); i++ {
		v := m.vertex(uint32(i))
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], v[k])
			max[k] = math.Max(max[k], v[k])
		}
	}
	return min, max
}

func (m *Mesh) vertex(i uint32) [3]float64 {
	return [3]float64{
		float64(m.Vertices[3*i]),
		float64(m.Vertices[3*i+1]),
		float64(m.Vertices[3*i+2]),
	}
}

// AddTriangle appends a flat-shaded triangle. Each corner gets its own vertex
// carrying the face normal, so a, b, c must be counter-clockwise seen from
// outside.
func (m *Mesh) AddTriangle(a, b, c v3.Vec) {
	n := unit(b.Sub(a).Cross(c.Sub(a)))
	base := uint32(m.VertexCount())
	for i, p := range [3]v3.Vec{a, b, c} {
		m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		m.Indices = append(m.Indices, base+uint32(i))
	}
}

// SmoothNormals replaces Normals with the area-weighted average of the face
// normals around each vertex.
func (m *Mesh) SmoothNormals() {
	acc := make([]v3.Vec, m.VertexCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := m.Indices[i : i+3]
		a, b, c := m.at(tri[0]), m.at(tri[1]), m.at(tri[2])
		n := b.Sub(a).Cross(c.Sub(a))
		for _, v := range tri {
			acc[v] = acc[v].Add(n)
		}
	}
	m.Normals = make([]float32, 0, len(m.Vertices))
	for _, n := range acc {
		n = unit(n)
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
}

func (m *Mesh) at(i uint32) v3.Vec {
	p := m.vertex(i)
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// unit normalizes n, leaving degenerate vectors at zero.
func unit(n v3.Vec) v3.Vec {
	if l := n.Length(); l > 1e-12 {
		return n.MulScalar(1 / l)
	}
	return v3.Vec{}
}
