package bsp

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the distance within which a point counts as lying on a plane.
// Every classification in the package uses it.
const Epsilon = 1e-5

// Side is the classification of a point or polygon against a plane. The
// values are bit flags so per-vertex sides can be OR-ed together.
type Side int

const (
	Coplanar Side = 0
	Front    Side = 1
	Back     Side = 2
	Spanning Side = Front | Back
)

func (s Side) String() string {
	switch s {
	case Coplanar:
		return "coplanar"
	case Front:
		return "front"
	case Back:
		return "back"
	case Spanning:
		return "spanning"
	default:
		return "unknown"
	}
}

// Plane is the set of points P with Normal·P == W. The front half-space is
// where Normal·P - W is positive.
type Plane struct {
	Normal v3.Vec
	W      float64
}

// NewPlaneFromPoints returns the plane through three points, oriented so that
// a, b, c wind counter-clockwise when seen from the front. Collinear points
// produce a degenerate plane; callers must not pass them.
func NewPlaneFromPoints(a, b, c v3.Vec) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: n, W: n.Dot(a)}
}

// Flip swaps the front and back half-spaces.
func (p *Plane) Flip() {
	p.Normal = p.Normal.MulScalar(-1)
	p.W = -p.W
}

// Distance returns the signed distance of pt from the plane.
func (p Plane) Distance(pt v3.Vec) float64 {
	return p.Normal.Dot(pt) - p.W
}

// Classify reports which side of the plane pt is on.
func (p Plane) Classify(pt v3.Vec) Side {
	d := p.Distance(pt)
	switch {
	case d < -Epsilon:
		return Back
	case d > Epsilon:
		return Front
	}
	return Coplanar
}

// ClassifyPolygon returns the OR of the sides of every vertex of poly.
func (p Plane) ClassifyPolygon(poly *Polygon) Side {
	_, s := p.classifyVertices(poly)
	return s
}

// classifyVertices returns the side of each vertex of poly and their OR.
func (p Plane) classifyVertices(poly *Polygon) ([]Side, Side) {
	types := make([]Side, len(poly.Vertices))
	var all Side
	for i := range poly.Vertices {
		types[i] = p.Classify(poly.Vertices[i].Position)
		all |= types[i]
	}
	return types, all
}

// SplitPolygon sorts poly into one of four buckets relative to the plane.
// Coplanar polygons go to coplanarFront when they face the same way as the
// plane and to coplanarBack otherwise. Spanning polygons are cut along the
// plane; each piece with at least three vertices lands in front or back.
// Callers that only need two buckets may pass front as coplanarFront and
// back as coplanarBack.
func (p Plane) SplitPolygon(poly *Polygon, coplanarFront, coplanarBack, front, back *[]*Polygon) {
	types, polyType := p.classifyVertices(poly)
	switch polyType {
	case Coplanar:
		if p.Normal.Dot(poly.Plane.Normal) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case Front:
		*front = append(*front, poly)
	case Back:
		*back = append(*back, poly)
	case Spanning:
		f := make([]Vertex, 0, len(poly.Vertices)+1)
		b := make([]Vertex, 0, len(poly.Vertices)+1)
		for i := range poly.Vertices {
			j := (i + 1) % len(poly.Vertices)
			ti, tj := types[i], types[j]
			vi, vj := poly.Vertices[i], poly.Vertices[j]
			if ti != Back {
				f = append(f, vi)
			}
			if ti != Front {
				// vi is a value, so appending it to both lists never aliases.
				b = append(b, vi)
			}
			if ti|tj == Spanning {
				t := (p.W - p.Normal.Dot(vi.Position)) / p.Normal.Dot(vj.Position.Sub(vi.Position))
				v := vi.Interpolate(vj, t)
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*front = append(*front, splitPiece(f, poly))
		}
		if len(b) >= 3 {
			*back = append(*back, splitPiece(b, poly))
		}
	}
}

// splitPiece builds a fragment of parent. Fragments lie in the parent's plane
// and reuse it.
func splitPiece(vertices []Vertex, parent *Polygon) *Polygon {
	return &Polygon{Vertices: vertices, Shared: parent.Shared, Plane: parent.Plane}
}
