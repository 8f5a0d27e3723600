package bsp

import (
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, wantMin[i], min[i], 1e-9, "min[%d]", i)
		assert.InDelta(t, wantMax[i], max[i], 1e-9, "max[%d]", i)
	}
}

func toMesh(t *testing.T, k kernel.Kernel, s kernel.Solid) *kernel.Mesh {
	t.Helper()
	m, err := k.ToMesh(s)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestKernelBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	assertBounds(t, box, [3]float64{0, 0, 0}, [3]float64{100, 50, 25})

	mesh := toMesh(t, k, box)
	assert.Equal(t, 12, mesh.TriangleCount())
	assert.Equal(t, 24, mesh.VertexCount())
	assert.Len(t, mesh.Normals, len(mesh.Vertices))
	assert.InDelta(t, 100*50*25, mesh.Volume(), 1e-3)
}

func TestKernelCylinder(t *testing.T) {
	k := New()
	cyl := k.Cylinder(50, 10, 32)
	assertBounds(t, cyl, [3]float64{-10, -10, 0}, [3]float64{10, 10, 50})

	mesh := toMesh(t, k, cyl)
	// Per slice: two cap triangles and a side quad.
	assert.Equal(t, 4*32, mesh.TriangleCount())
	assert.InEpsilon(t, prismVolume(32, 10, 50), mesh.Volume(), 1e-5)
}

func TestKernelSegmentDefaults(t *testing.T) {
	tests := []struct {
		name string
		k    *BspKernel
		s    func(*BspKernel) kernel.Solid
		want int
	}{
		{"cylinder default", New(), func(k *BspKernel) kernel.Solid { return k.Cylinder(1, 1, 0) }, 3 * DefaultSlices},
		{"cylinder option", New(WithSlices(6)), func(k *BspKernel) kernel.Solid { return k.Cylinder(1, 1, -1) }, 18},
		{"cylinder explicit", New(WithSlices(6)), func(k *BspKernel) kernel.Solid { return k.Cylinder(1, 1, 10) }, 30},
		{"sphere default", New(), func(k *BspKernel) kernel.Solid { return k.Sphere(1, 0) }, DefaultSlices * DefaultStacks},
		{"sphere options", New(WithSlices(8), WithStacks(3)), func(k *BspKernel) kernel.Solid { return k.Sphere(1, 0) }, 24},
		{"sphere explicit", New(), func(k *BspKernel) kernel.Solid { return k.Sphere(1, 8) }, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.s(tt.k).(*Solid)
			assert.Len(t, s.Polygons, tt.want)
		})
	}
}

func TestKernelSphere(t *testing.T) {
	k := New()
	s := k.Sphere(10, 0)
	assertBounds(t, s, [3]float64{-10, -10, -10}, [3]float64{10, 10, 10})
	mesh := toMesh(t, k, s)
	// Caps are single triangles, every other band is a quad.
	assert.Equal(t, 2*DefaultSlices+2*DefaultSlices*(DefaultStacks-2), mesh.TriangleCount())
}

func TestKernelDifference(t *testing.T) {
	k := New()
	box := k.Box(100, 100, 100)
	boxMesh := toMesh(t, k, box)

	cyl := k.Translate(k.Cylinder(120, 20, 32), 50, 50, -10)
	diff := k.Difference(box, cyl)
	diffMesh := toMesh(t, k, diff)

	assert.Greater(t, diffMesh.TriangleCount(), boxMesh.TriangleCount())
	want := 1e6 - prismVolume(32, 20, 100)
	assert.InEpsilon(t, want, diffMesh.Volume(), 1e-5)
	assertBounds(t, diff, [3]float64{0, 0, 0}, [3]float64{100, 100, 100})
}

func TestKernelUnion(t *testing.T) {
	k := New()
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)

	mesh := toMesh(t, k, u)
	assert.InEpsilon(t, 80*50*50, mesh.Volume(), 1e-6)
	assertBounds(t, u, [3]float64{0, 0, 0}, [3]float64{80, 50, 50})
}

func TestKernelIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)

	mesh := toMesh(t, k, inter)
	assert.False(t, mesh.IsEmpty())
	assert.InEpsilon(t, 50*100*100, mesh.Volume(), 1e-6)
	assertBounds(t, inter, [3]float64{50, 0, 0}, [3]float64{100, 100, 100})
}

func TestKernelTranslate(t *testing.T) {
	k := New()
	moved := k.Translate(k.Box(10, 10, 10), 100, 200, 300)
	assertBounds(t, moved, [3]float64{100, 200, 300}, [3]float64{110, 210, 310})
}

func TestKernelRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z extends along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	assertBounds(t, rotated, [3]float64{-10, 0, 0}, [3]float64{0, 100, 10})

	// X is applied before Z: the long side first stays on X, then turns to Y.
	both := k.Rotate(box, 90, 0, 90)
	min, max := both.BoundingBox()
	assert.InDelta(t, 100, max[1]-min[1], 1e-9)
	assert.InDelta(t, 10, max[2]-min[2], 1e-9)
}

func TestKernelValidation(t *testing.T) {
	bad := NewSolid([]*Polygon{{
		Vertices: vertices(v3.Vec{}, v3.Vec{X: 2}, v3.Vec{X: 2, Y: 2}, v3.Vec{X: 1, Y: 0.5}),
		Plane:    Plane{Normal: v3.Vec{Z: 1}},
	}})

	_, err := New().ToMesh(bad)
	assert.NoError(t, err, "validation is off by default")

	_, err = New(WithValidation()).ToMesh(bad)
	assert.ErrorIs(t, err, ErrNotConvex)

	_, err = New(WithValidation()).ToMesh(New().Box(1, 2, 3))
	assert.NoError(t, err)
}

func TestKernelShared(t *testing.T) {
	s := New(WithShared(9)).Box(1, 1, 1).(*Solid)
	for _, p := range s.Polygons {
		assert.Equal(t, 9, p.Shared)
	}
}

type foreignSolid struct{}

func (foreignSolid) BoundingBox() (min, max [3]float64) { return }

func TestKernelRejectsForeignSolid(t *testing.T) {
	k := New()
	assert.Panics(t, func() { k.Union(k.Box(1, 1, 1), foreignSolid{}) })
}

func TestEulerDegrees(t *testing.T) {
	p := eulerDegrees(90, 0, 0).MulPosition(v3.Vec{Y: 1})
	assert.InDelta(t, 1, p.Z, 1e-12)
	p = eulerDegrees(0, 0, 90).MulPosition(v3.Vec{X: 1})
	assert.InDelta(t, 1, p.Y, 1e-12)
	assert.InDelta(t, 0, math.Abs(p.X), 1e-12)
}
