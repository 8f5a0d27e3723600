package bsp

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

var (
	// ErrTooFewVertices is returned when a polygon has fewer than 3 vertices.
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	// ErrDegenerate is returned when the first three vertices are collinear.
	ErrDegenerate = errors.New("polygon plane is degenerate")
	// ErrNotCoplanar is returned when a vertex lies off the polygon plane.
	ErrNotCoplanar = errors.New("polygon vertices are not coplanar")
	// ErrNotConvex is returned when the vertex loop is not convex.
	ErrNotConvex = errors.New("polygon is not convex")
)

var validateOnCreate atomic.Bool

// SetValidation turns construction-time validation in NewPolygon on or off.
// It is off by default; Polygon.Validate can always be called directly.
func SetValidation(on bool) {
	validateOnCreate.Store(on)
}

// ValidationEnabled reports whether NewPolygon validates its input.
func ValidationEnabled() bool {
	return validateOnCreate.Load()
}

// Polygon is a convex, planar loop of vertices. Shared is an opaque tag
// (a material or part index) that every operation passes through untouched.
type Polygon struct {
	Vertices []Vertex
	Shared   int
	Plane    Plane
}

// NewPolygon builds a polygon from vertices in counter-clockwise order as
// seen from the front. The plane is taken from the first three vertices.
func NewPolygon(vertices []Vertex, shared int) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("bsp: new polygon: %w (got %d)", ErrTooFewVertices, len(vertices))
	}
	p := &Polygon{
		Vertices: append([]Vertex(nil), vertices...),
		Shared:   shared,
		Plane:    NewPlaneFromPoints(vertices[0].Position, vertices[1].Position, vertices[2].Position),
	}
	if validateOnCreate.Load() {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// MustPolygon is like NewPolygon but panics on error. It is meant for
// vertex lists known to be valid, such as the primitive factories.
func MustPolygon(vertices []Vertex, shared int) *Polygon {
	p, err := NewPolygon(vertices, shared)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks that the polygon has at least three vertices, all within
// Epsilon of its plane, and that the loop is convex.
func (p *Polygon) Validate() error {
	n := len(p.Vertices)
	if n < 3 {
		return fmt.Errorf("bsp: validate: %w (got %d)", ErrTooFewVertices, n)
	}
	nl := p.Plane.Normal.Length()
	if math.IsNaN(nl) || math.Abs(nl-1) > 1e-6 {
		return fmt.Errorf("bsp: validate: %w", ErrDegenerate)
	}
	for i := range p.Vertices {
		if d := p.Plane.Distance(p.Vertices[i].Position); math.Abs(d) > Epsilon {
			return fmt.Errorf("bsp: validate: vertex %d is %g from plane: %w", i, d, ErrNotCoplanar)
		}
	}
	// Every vertex must lie on the inner side of every edge.
	for i := 0; i < n; i++ {
		a := p.Vertices[i].Position
		edge := p.Vertices[(i+1)%n].Position.Sub(a)
		el := edge.Length()
		if el == 0 {
			continue
		}
		inward := p.Plane.Normal.Cross(edge).MulScalar(1 / el)
		for j := 0; j < n; j++ {
			if j == i || j == (i+1)%n {
				continue
			}
			if inward.Dot(p.Vertices[j].Position.Sub(a)) < -Epsilon {
				return fmt.Errorf("bsp: validate: vertex %d outside edge %d: %w", j, i, ErrNotConvex)
			}
		}
	}
	return nil
}

// Flip turns the polygon inside out: the vertex order is reversed, every
// vertex normal is flipped and so is the plane.
func (p *Polygon) Flip() {
	for i, j := 0, len(p.Vertices)-1; i < j; i, j = i+1, j-1 {
		p.Vertices[i], p.Vertices[j] = p.Vertices[j], p.Vertices[i]
	}
	for i := range p.Vertices {
		p.Vertices[i].Flip()
	}
	p.Plane.Flip()
}

// Clone returns a deep copy of the polygon.
func (p *Polygon) Clone() *Polygon {
	return &Polygon{
		Vertices: append([]Vertex(nil), p.Vertices...),
		Shared:   p.Shared,
		Plane:    p.Plane,
	}
}

// Area returns the area of the polygon.
func (p *Polygon) Area() float64 {
	var sum float64
	a := p.Vertices[0].Position
	for i := 1; i+1 < len(p.Vertices); i++ {
		b := p.Vertices[i].Position.Sub(a)
		c := p.Vertices[i+1].Position.Sub(a)
		sum += b.Cross(c).Dot(p.Plane.Normal)
	}
	return sum / 2
}
