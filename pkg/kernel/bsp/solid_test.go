package bsp

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumeTol = 1e-6

// requireWellFormed checks that every polygon has at least three vertices,
// all within Epsilon of its own plane.
func requireWellFormed(t *testing.T, s *Solid) {
	t.Helper()
	for i, p := range s.Polygons {
		require.GreaterOrEqual(t, len(p.Vertices), 3, "polygon %d", i)
		require.InDelta(t, 1, p.Plane.Normal.Length(), 1e-9, "polygon %d", i)
		for j, v := range p.Vertices {
			require.InDelta(t, 0, p.Plane.Distance(v.Position), Epsilon, "polygon %d vertex %d", i, j)
		}
	}
}

// overlapping returns two 2x2x2 cubes sharing the unit cube [0,1]^3.
func overlapping() (a, b *Solid) {
	size := v3.Vec{X: 2, Y: 2, Z: 2}
	return Cuboid(v3.Vec{}, size, 0), Cuboid(v3.Vec{X: 1, Y: 1, Z: 1}, size, 1)
}

func cubeAndSphere() (a, b *Solid) {
	return unitCube(), Sphere(v3.Vec{X: 0.5, Y: 0.3, Z: 0.2}, 1.3, 16, 8, 1)
}

func TestDisjointUnionKeepsAllFaces(t *testing.T) {
	unit := v3.Vec{X: 1, Y: 1, Z: 1}
	a := Cuboid(v3.Vec{}, unit, 0)
	b := Cuboid(v3.Vec{X: 2}, unit, 1)

	u := a.Union(b)
	assert.Len(t, u.Polygons, 12)
	assert.InDelta(t, 2, u.Volume(), volumeTol)
	assert.NoError(t, u.Validate())
}

func TestUnionIdentity(t *testing.T) {
	a := unitCube()
	empty := NewSolid(nil)

	for name, u := range map[string]*Solid{
		"empty right": a.Union(empty),
		"empty left":  empty.Union(a),
	} {
		t.Run(name, func(t *testing.T) {
			assert.ElementsMatch(t, a.Polygons, u.Polygons)
			assert.InDelta(t, a.Volume(), u.Volume(), volumeTol)
		})
	}
}

func TestOverlappingCubes(t *testing.T) {
	a, b := overlapping()
	tests := []struct {
		name string
		op   func() *Solid
		want float64
	}{
		{"union", func() *Solid { return a.Union(b) }, 15},
		{"union reversed", func() *Solid { return b.Union(a) }, 15},
		{"intersect", func() *Solid { return a.Intersect(b) }, 1},
		{"intersect reversed", func() *Solid { return b.Intersect(a) }, 1},
		{"subtract", func() *Solid { return a.Subtract(b) }, 7},
		{"subtract reversed", func() *Solid { return b.Subtract(a) }, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.op()
			requireWellFormed(t, s)
			assert.InDelta(t, tt.want, s.Volume(), volumeTol)
		})
	}
}

func TestOperationsDoNotMutateInputs(t *testing.T) {
	a, b := overlapping()
	ac, bc := a.Clone(), b.Clone()
	a.Union(b)
	a.Intersect(b)
	a.Subtract(b)
	assert.Equal(t, ac, a)
	assert.Equal(t, bc, b)
}

func TestUnionCommutative(t *testing.T) {
	a, b := cubeAndSphere()
	ab, ba := a.Union(b), b.Union(a)
	requireWellFormed(t, ab)
	requireWellFormed(t, ba)
	assert.InDelta(t, ab.Volume(), ba.Volume(), volumeTol)
	assert.Greater(t, ab.Volume(), a.Volume())
	assert.Greater(t, ab.Volume(), b.Volume())
}

func TestDeMorgan(t *testing.T) {
	pairs := map[string]func() (*Solid, *Solid){
		"cubes":        overlapping,
		"cube, sphere": cubeAndSphere,
	}
	for name, pair := range pairs {
		t.Run(name, func(t *testing.T) {
			a, b := pair()
			direct := a.Intersect(b)
			derived := a.Inverse().Union(b.Inverse()).Inverse()
			requireWellFormed(t, direct)
			requireWellFormed(t, derived)
			assert.InDelta(t, direct.Volume(), derived.Volume(), volumeTol)
		})
	}
}

func TestPartitionOfVolume(t *testing.T) {
	a, b := cubeAndSphere()
	inside := a.Intersect(b).Volume()
	outside := a.Subtract(b).Volume()
	assert.InDelta(t, a.Volume(), inside+outside, volumeTol)

	union := a.Union(b).Volume()
	assert.InDelta(t, a.Volume()+b.Volume()-inside, union, volumeTol)
}

func TestSelfIntersection(t *testing.T) {
	for name, s := range map[string]*Solid{
		"cube":     unitCube(),
		"sphere":   Sphere(v3.Vec{}, 1, 12, 6, 0),
		"cylinder": Cylinder(v3.Vec{}, v3.Vec{Z: 2}, 1, 12, 0),
	} {
		t.Run(name, func(t *testing.T) {
			got := s.Intersect(s)
			requireWellFormed(t, got)
			assert.InDelta(t, s.Volume(), got.Volume(), volumeTol)
		})
	}
}

func TestSubtractSelfIsEmpty(t *testing.T) {
	for name, s := range map[string]*Solid{
		"cube":     unitCube(),
		"sphere":   Sphere(v3.Vec{}, 1, 12, 6, 0),
		"cylinder": Cylinder(v3.Vec{}, v3.Vec{Z: 2}, 1, 12, 0),
	} {
		t.Run(name, func(t *testing.T) {
			got := s.Subtract(s)
			assert.InDelta(t, 0, got.Volume(), volumeTol)
		})
	}
}

func TestInverse(t *testing.T) {
	a := unitCube()
	inv := a.Inverse()
	assert.InDelta(t, -8, inv.Volume(), volumeTol)
	assert.InDelta(t, 8, a.Volume(), volumeTol, "Inverse must not modify the receiver")
	assert.InDelta(t, 8, inv.Inverse().Volume(), volumeTol)
}

func TestShapesAreTagged(t *testing.T) {
	a, b := overlapping()
	tags := map[int]int{}
	for _, p := range a.Union(b).Polygons {
		tags[p.Shared]++
	}
	assert.Len(t, tags, 2)
	assert.Positive(t, tags[0])
	assert.Positive(t, tags[1])
}

func TestTransform(t *testing.T) {
	a := unitCube()
	m := sdf.Translate3d(v3.Vec{X: 3}).Mul(sdf.RotateZ(math.Pi / 6))
	moved := a.Transform(m)

	requireWellFormed(t, moved)
	assert.InDelta(t, a.Volume(), moved.Volume(), volumeTol)
	assert.NoError(t, moved.Validate())
	for _, p := range moved.Polygons {
		for _, v := range p.Vertices {
			assert.InDelta(t, 1, v.Normal.Length(), 1e-9)
			assert.InDelta(t, 1, v.Normal.Dot(p.Plane.Normal), 1e-9)
		}
	}

	min, max := moved.BoundingBox()
	assert.InDelta(t, 3, (min[0]+max[0])/2, 1e-9)
	assert.InDelta(t, -1, min[2], 1e-9)
	assert.InDelta(t, 1, max[2], 1e-9)
}

func TestTranslate(t *testing.T) {
	min, max := unitCube().Translate(v3.Vec{X: 1, Y: 2, Z: 3}).BoundingBox()
	assert.Equal(t, [3]float64{0, 1, 2}, min)
	assert.Equal(t, [3]float64{2, 3, 4}, max)
}

func TestEmptySolid(t *testing.T) {
	s := NewSolid(nil)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0.0, s.Volume())
	min, max := s.BoundingBox()
	assert.Equal(t, [3]float64{}, min)
	assert.Equal(t, [3]float64{}, max)
	assert.NoError(t, s.Validate())
}
