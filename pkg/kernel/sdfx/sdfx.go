// Package sdfx backs kernel.Kernel with signed distance fields from
// github.com/deadsy/sdfx. Solids are meshed by uniform marching cubes, so
// output is an approximation whose accuracy follows the cell count.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest side
// of a solid's bounding box.
const DefaultMeshCells = 200

type field struct{ sdf sdf.SDF3 }

func (f *field) BoundingBox() (lo, hi [3]float64) {
	bb := f.sdf.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

func sdf3(s kernel.Solid) sdf.SDF3 { return s.(*field).sdf }

// must turns an sdfx constructor error into a panic. Constructors only fail
// on non-positive sizes, which the design graph validator rejects earlier.
func must(what string, s sdf.SDF3, err error) sdf.SDF3 {
	if err != nil {
		panic(fmt.Sprintf("sdfx: %s: %v", what, err))
	}
	return s
}

func moved(s sdf.SDF3, by v3.Vec) kernel.Solid {
	return &field{sdf.Transform3D(s, sdf.Translate3d(by))}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution used by ToMesh.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) { k.meshCells = n }
}

func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{meshCells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Box3D is centred on the origin; the result is shifted so its minimum
// corner sits there instead.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	size := v3.Vec{X: x, Y: y, Z: z}
	s, err := sdf.Box3D(size, 0)
	return moved(must("box", s, err), size.MulScalar(0.5))
}

// Cylinder stands on z=0. Fields are smooth, so segments is ignored.
func (k *SdfxKernel) Cylinder(height, radius float64, _ int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	return moved(must("cylinder", s, err), v3.Vec{Z: height / 2})
}

func (k *SdfxKernel) Sphere(radius float64, _ int) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	return &field{must("sphere", s, err)}
}

func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return &field{sdf.Union3D(sdf3(a), sdf3(b))}
}

func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return &field{sdf.Difference3D(sdf3(a), sdf3(b))}
}

func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return &field{sdf.Intersect3D(sdf3(a), sdf3(b))}
}

func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return moved(sdf3(s), v3.Vec{X: x, Y: y, Z: z})
}

// Rotate applies X, then Y, then Z rotations given in degrees.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	m := sdf.RotateZ(rad(z)).Mul(sdf.RotateY(rad(y))).Mul(sdf.RotateX(rad(x)))
	return &field{sdf.Transform3D(sdf3(s), m)}
}

func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	tris := render.ToTriangles(sdf3(s), render.NewMarchingCubesUniform(k.meshCells))
	mesh := &kernel.Mesh{}
	for _, t := range tris {
		mesh.AddTriangle(t[0], t[1], t[2])
	}
	return mesh, nil
}
