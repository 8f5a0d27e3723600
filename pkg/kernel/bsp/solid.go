package bsp

import (
	"math"

	"github.com/chazu/kerf/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ kernel.Solid = (*Solid)(nil)

// Solid is a closed set of polygons, the unit of input and output for the
// boolean operations. BSP trees are built from it per operation and thrown
// away afterwards.
type Solid struct {
	Polygons []*Polygon
}

// NewSolid wraps polys in a Solid. The slice is used as is.
func NewSolid(polys []*Polygon) *Solid {
	return &Solid{Polygons: polys}
}

// Clone returns a deep copy of the solid.
func (s *Solid) Clone() *Solid {
	polys := make([]*Polygon, len(s.Polygons))
	for i, p := range s.Polygons {
		polys[i] = p.Clone()
	}
	return &Solid{Polygons: polys}
}

// IsEmpty reports whether the solid has no polygons.
func (s *Solid) IsEmpty() bool {
	return len(s.Polygons) == 0
}

// Union returns the space inside s, other, or both.
//
//	+-------+            +-------+
//	|       |            |       |
//	|   s   |            |       |
//	|    +--+----+   =   |       +----+
//	+----+--+    |       +----+       |
//	     |   o   |            |       |
//	     +-------+            +-------+
func (s *Solid) Union(other *Solid) *Solid {
	a := NewNode(s.Clone().Polygons)
	b := NewNode(other.Clone().Polygons)
	a.ClipTo(b)
	b.ClipTo(a)
	b.Invert()
	b.ClipTo(a)
	b.Invert()
	a.Build(b.AllPolygons())
	return NewSolid(a.AllPolygons())
}

// Subtract returns the space inside s but not inside other.
//
//	+-------+            +-------+
//	|       |            |       |
//	|   s   |            |       |
//	|    +--+----+   =   |    +--+
//	+----+--+    |       +----+
//	     |   o   |
//	     +-------+
func (s *Solid) Subtract(other *Solid) *Solid {
	a := NewNode(s.Clone().Polygons)
	b := NewNode(other.Clone().Polygons)
	a.Invert()
	a.ClipTo(b)
	b.ClipTo(a)
	b.Invert()
	b.ClipTo(a)
	b.Invert()
	a.Build(b.AllPolygons())
	a.Invert()
	return NewSolid(a.AllPolygons())
}

// Intersect returns the space inside both s and other.
//
//	+-------+
//	|       |
//	|   s   |
//	|    +--+----+   =   +--+
//	+----+--+    |       +--+
//	     |   o   |
//	     +-------+
func (s *Solid) Intersect(other *Solid) *Solid {
	a := NewNode(s.Clone().Polygons)
	b := NewNode(other.Clone().Polygons)
	a.Invert()
	b.ClipTo(a)
	b.Invert()
	a.ClipTo(b)
	b.ClipTo(a)
	a.Build(b.AllPolygons())
	a.Invert()
	return NewSolid(a.AllPolygons())
}

// Inverse returns a copy of s with every polygon flipped, turning the solid
// inside out.
func (s *Solid) Inverse() *Solid {
	c := s.Clone()
	for _, p := range c.Polygons {
		p.Flip()
	}
	return c
}

// Transform returns a copy of s with every vertex mapped through m. Normals
// and planes follow; m must be a rigid motion or a uniform scale.
func (s *Solid) Transform(m sdf.M44) *Solid {
	dir := func(p, d v3.Vec) v3.Vec {
		return m.MulPosition(p.Add(d)).Sub(m.MulPosition(p)).Normalize()
	}
	out := make([]*Polygon, len(s.Polygons))
	for i, p := range s.Polygons {
		q := &Polygon{Vertices: make([]Vertex, len(p.Vertices)), Shared: p.Shared}
		for j, v := range p.Vertices {
			v.Normal = dir(v.Position, v.Normal)
			v.Position = m.MulPosition(v.Position)
			q.Vertices[j] = v
		}
		n := dir(p.Vertices[0].Position, p.Plane.Normal)
		q.Plane = Plane{Normal: n, W: n.Dot(q.Vertices[0].Position)}
		out[i] = q
	}
	return &Solid{Polygons: out}
}

// Translate returns a copy of s moved by d.
func (s *Solid) Translate(d v3.Vec) *Solid {
	return s.Transform(sdf.Translate3d(d))
}

// Volume returns the enclosed volume, summing signed tetrahedra from the
// origin to every triangle of the polygon fans. An inside-out solid has a
// negative volume.
func (s *Solid) Volume() float64 {
	var sum float64
	for _, p := range s.Polygons {
		a := p.Vertices[0].Position
		for i := 1; i+1 < len(p.Vertices); i++ {
			b := p.Vertices[i].Position
			c := p.Vertices[i+1].Position
			sum += a.Dot(b.Cross(c))
		}
	}
	return sum / 6
}

// BoundingBox returns the axis-aligned bounds of all vertices. An empty
// solid reports zero bounds.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	if s.IsEmpty() {
		return min, max
	}
	for i := 0; i < 3; i++ {
		min[i] = math.Inf(1)
		max[i] = math.Inf(-1)
	}
	for _, p := range s.Polygons {
		for _, v := range p.Vertices {
			c := [3]float64{v.Position.X, v.Position.Y, v.Position.Z}
			for i := 0; i < 3; i++ {
				min[i] = math.Min(min[i], c[i])
				max[i] = math.Max(max[i], c[i])
			}
		}
	}
	return min, max
}

// Validate runs Polygon.Validate on every polygon and returns the first
// failure.
func (s *Solid) Validate() error {
	for _, p := range s.Polygons {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
