package bsp

import (
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/chazu/kerf/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrFaceIndex is returned when a mesh face refers to a vertex that does not
// exist.
var ErrFaceIndex = errors.New("face index out of range")

// IndexedMesh is a triangle mesh with parallel per-vertex attribute arrays.
// Normals, UVs and Colors may be nil; when present they must be as long as
// Positions.
type IndexedMesh struct {
	Positions []v3.Vec
	Normals   []v3.Vec
	UVs       []v2.Vec
	Colors    []color.NRGBA
	Faces     [][3]int
}

// FromIndexedMesh builds a solid with one triangle per face. Attributes are
// read by index; missing normals fall back to the face normal.
func FromIndexedMesh(m *IndexedMesh) (*Solid, error) {
	n := len(m.Positions)
	for _, attr := range []struct {
		name string
		len  int
	}{
		{"normals", len(m.Normals)},
		{"uvs", len(m.UVs)},
		{"colors", len(m.Colors)},
	} {
		if attr.len != 0 && attr.len != n {
			return nil, fmt.Errorf("bsp: from mesh: %d %s for %d positions", attr.len, attr.name, n)
		}
	}

	polys := make([]*Polygon, 0, len(m.Faces))
	for fi, f := range m.Faces {
		vs := make([]Vertex, 3)
		for k, idx := range f {
			if idx < 0 || idx >= n {
				return nil, fmt.Errorf("bsp: from mesh: face %d: index %d: %w", fi, idx, ErrFaceIndex)
			}
			v := NewVertex(m.Positions[idx], v3.Vec{})
			if m.Normals != nil {
				v.Normal = m.Normals[idx]
			}
			if m.UVs != nil {
				v.UV = m.UVs[idx]
			}
			if m.Colors != nil {
				v.Color = m.Colors[idx]
			}
			vs[k] = v
		}
		p, err := NewPolygon(vs, 0)
		if err != nil {
			return nil, fmt.Errorf("bsp: from mesh: face %d: %w", fi, err)
		}
		if m.Normals == nil {
			for k := range p.Vertices {
				p.Vertices[k].Normal = p.Plane.Normal
			}
		}
		polys = append(polys, p)
	}
	return NewSolid(polys), nil
}

// SetSolid replaces the contents of m with the polygons of s. Polygons are
// fan-triangulated and identical vertices are merged, so repeated boolean
// operations do not multiply the vertex count.
func (m *IndexedMesh) SetSolid(s *Solid) {
	verts, faces := triangulate(s)
	m.Positions = make([]v3.Vec, len(verts))
	m.Normals = make([]v3.Vec, len(verts))
	m.UVs = make([]v2.Vec, len(verts))
	m.Colors = make([]color.NRGBA, len(verts))
	for i, v := range verts {
		m.Positions[i] = v.Position
		m.Normals[i] = v.Normal
		m.UVs[i] = v.UV
		m.Colors[i] = v.Color
	}
	m.Faces = faces
}

// ToIndexedMesh returns a new mesh holding the polygons of s.
func ToIndexedMesh(s *Solid) *IndexedMesh {
	m := &IndexedMesh{}
	m.SetSolid(s)
	return m
}

// ToKernelMesh flattens s into the renderer's mesh format.
func ToKernelMesh(s *Solid) *kernel.Mesh {
	verts, faces := triangulate(s)
	out := &kernel.Mesh{
		Vertices: make([]float32, 0, 3*len(verts)),
		Normals:  make([]float32, 0, 3*len(verts)),
		Indices:  make([]uint32, 0, 3*len(faces)),
	}
	for _, v := range verts {
		out.Vertices = append(out.Vertices, float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z))
		out.Normals = append(out.Normals, float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z))
	}
	for _, f := range faces {
		out.Indices = append(out.Indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return out
}

// triangulate fans every polygon of s into triangles and returns the sorted
// set of distinct vertices with faces indexing into it.
func triangulate(s *Solid) ([]Vertex, [][3]int) {
	var tris [][3]Vertex
	for _, p := range s.Polygons {
		for i := 1; i+1 < len(p.Vertices); i++ {
			tris = append(tris, [3]Vertex{p.Vertices[0], p.Vertices[i], p.Vertices[i+1]})
		}
	}

	var verts []Vertex
	for _, t := range tris {
		for _, v := range t {
			i, found := slices.BinarySearchFunc(verts, v, compareVertex)
			if !found {
				verts = slices.Insert(verts, i, v)
			}
		}
	}

	faces := make([][3]int, len(tris))
	for fi, t := range tris {
		for k, v := range t {
			faces[fi][k], _ = slices.BinarySearchFunc(verts, v, compareVertex)
		}
	}
	return verts, faces
}
