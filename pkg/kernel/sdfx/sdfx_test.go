package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/kernel"
)

func TestToMesh(t *testing.T) {
	tests := []struct {
		name  string
		solid func(k *SdfxKernel) kernel.Solid
		vol   float64 // expected enclosed volume, within 5%
	}{
		{
			name:  "box",
			solid: func(k *SdfxKernel) kernel.Solid { return k.Box(100, 50, 25) },
			vol:   100 * 50 * 25,
		},
		{
			name:  "cylinder",
			solid: func(k *SdfxKernel) kernel.Solid { return k.Cylinder(50, 10, 32) },
			vol:   math.Pi * 100 * 50,
		},
		{
			name: "overlapping union",
			solid: func(k *SdfxKernel) kernel.Solid {
				return k.Union(k.Box(50, 50, 50), k.Translate(k.Box(50, 50, 50), 30, 0, 0))
			},
			vol: 80 * 50 * 50,
		},
		{
			name: "half overlap intersection",
			solid: func(k *SdfxKernel) kernel.Solid {
				return k.Intersection(k.Box(100, 100, 100), k.Translate(k.Box(100, 100, 100), 50, 0, 0))
			},
			vol: 50 * 100 * 100,
		},
		{
			name: "box with through hole",
			solid: func(k *SdfxKernel) kernel.Solid {
				hole := k.Translate(k.Cylinder(120, 20, 32), 50, 50, -10)
				return k.Difference(k.Box(100, 100, 100), hole)
			},
			vol: 1e6 - math.Pi*400*100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := New(WithMeshCells(100))
			m, err := k.ToMesh(tt.solid(k))
			if err != nil {
				t.Fatalf("ToMesh: %v", err)
			}
			if m.IsEmpty() {
				t.Fatal("mesh is empty")
			}
			if len(m.Normals) != len(m.Vertices) || len(m.Indices) != 3*m.TriangleCount() {
				t.Fatalf("inconsistent arrays: %d vertices, %d normals, %d indices",
					len(m.Vertices), len(m.Normals), len(m.Indices))
			}
			if got := math.Abs(m.Volume()); math.Abs(got-tt.vol)/tt.vol > 0.05 {
				t.Errorf("volume = %.0f, want ~%.0f", got, tt.vol)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name   string
		solid  func(k *SdfxKernel) kernel.Solid
		lo, hi [3]float64
		tol    float64
	}{
		{
			name:  "box has its corner at the origin",
			solid: func(k *SdfxKernel) kernel.Solid { return k.Box(100, 50, 25) },
			hi:    [3]float64{100, 50, 25},
			tol:   0.01,
		},
		{
			name:  "cylinder stands on z=0",
			solid: func(k *SdfxKernel) kernel.Solid { return k.Cylinder(40, 5, 0) },
			lo:    [3]float64{-5, -5, 0},
			hi:    [3]float64{5, 5, 40},
			tol:   0.01,
		},
		{
			name:  "sphere is centred",
			solid: func(k *SdfxKernel) kernel.Solid { return k.Sphere(7, 0) },
			lo:    [3]float64{-7, -7, -7},
			hi:    [3]float64{7, 7, 7},
			tol:   0.01,
		},
		{
			name:  "translate",
			solid: func(k *SdfxKernel) kernel.Solid { return k.Translate(k.Box(10, 10, 10), 100, 200, 300) },
			lo:    [3]float64{100, 200, 300},
			hi:    [3]float64{110, 210, 310},
			tol:   0.5,
		},
		{
			name:  "quarter turn about Z swaps X and Y",
			solid: func(k *SdfxKernel) kernel.Solid { return k.Rotate(k.Box(100, 10, 10), 0, 0, 90) },
			lo:    [3]float64{-10, 0, 0},
			hi:    [3]float64{0, 100, 10},
			tol:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.solid(New()).BoundingBox()
			for i := range 3 {
				if math.Abs(lo[i]-tt.lo[i]) > tt.tol || math.Abs(hi[i]-tt.hi[i]) > tt.tol {
					t.Errorf("axis %d spans [%.2f, %.2f], want [%.2f, %.2f]", i, lo[i], hi[i], tt.lo[i], tt.hi[i])
				}
			}
		})
	}
}

func TestSphereVolume(t *testing.T) {
	k := New(WithMeshCells(64))
	m, err := k.ToMesh(k.Sphere(10, 0))
	if err != nil {
		t.Fatalf("ToMesh: %v", err)
	}
	want := 4.0 / 3 * math.Pi * 1000
	if got := math.Abs(m.Volume()); math.Abs(got-want)/want > 0.05 {
		t.Errorf("sphere volume = %f, want ~%f", got, want)
	}
}

func TestMeshCellsOption(t *testing.T) {
	count := func(cells int) int {
		k := New(WithMeshCells(cells))
		m, err := k.ToMesh(k.Sphere(10, 0))
		if err != nil {
			t.Fatalf("ToMesh(%d cells): %v", cells, err)
		}
		return m.TriangleCount()
	}
	if coarse, fine := count(16), count(64); fine <= coarse {
		t.Errorf("64 cells gave %d triangles, 16 cells gave %d; want more for the finer grid", fine, coarse)
	}
}

func TestNonPositiveSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Sphere(-1) did not panic")
		}
	}()
	New().Sphere(-1, 0)
}
