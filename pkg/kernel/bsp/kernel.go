package bsp

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*BspKernel)(nil)

// BspKernel implements kernel.Kernel with exact polygonal CSG. Solids are
// plain polygon lists, so meshes come out with flat faces and sharp edges
// instead of the sampled surfaces of the sdfx backend.
type BspKernel struct {
	slices   int
	stacks   int
	shared   int
	validate bool
}

// Option configures a BspKernel.
type Option func(*BspKernel)

// WithSlices sets the number of segments around curved primitives when the
// caller passes a non-positive segment count.
func WithSlices(n int) Option {
	return func(k *BspKernel) { k.slices = n }
}

// WithStacks sets the number of latitude bands of a sphere.
func WithStacks(n int) Option {
	return func(k *BspKernel) { k.stacks = n }
}

// WithShared sets the tag stored on every polygon the kernel creates.
func WithShared(tag int) Option {
	return func(k *BspKernel) { k.shared = tag }
}

// WithValidation makes ToMesh check every polygon before triangulating.
func WithValidation() Option {
	return func(k *BspKernel) { k.validate = true }
}

// New returns a new BspKernel.
func New(opts ...Option) *BspKernel {
	k := &BspKernel{slices: DefaultSlices, stacks: DefaultStacks}
	for _, o := range opts {
		o(k)
	}
	return k
}

// unwrap extracts the polygon solid from a kernel.Solid.
func unwrap(s kernel.Solid) *Solid {
	b, ok := s.(*Solid)
	if !ok {
		panic(fmt.Sprintf("bsp: solid of type %T does not belong to this kernel", s))
	}
	return b
}

// Box creates a box with its minimum corner at the origin.
func (k *BspKernel) Box(x, y, z float64) kernel.Solid {
	size := v3.Vec{X: x, Y: y, Z: z}
	return Cuboid(size.MulScalar(0.5), size, k.shared)
}

// Cylinder creates a cylinder standing on z=0 along +Z, centered in XY.
func (k *BspKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments <= 0 {
		segments = k.slices
	}
	return Cylinder(v3.Vec{}, v3.Vec{Z: height}, radius, segments, k.shared)
}

// Sphere creates a sphere centered at the origin. The number of stacks is
// half the segment count when segments is given.
func (k *BspKernel) Sphere(radius float64, segments int) kernel.Solid {
	slices, stacks := k.slices, k.stacks
	if segments > 0 {
		slices = segments
		stacks = max(2, segments/2)
	}
	return Sphere(v3.Vec{}, radius, slices, stacks, k.shared)
}

// Union returns the union of two solids.
func (k *BspKernel) Union(a, b kernel.Solid) kernel.Solid {
	return unwrap(a).Union(unwrap(b))
}

// Difference returns the difference a - b.
func (k *BspKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return unwrap(a).Subtract(unwrap(b))
}

// Intersection returns the intersection of two solids.
func (k *BspKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return unwrap(a).Intersect(unwrap(b))
}

// Translate moves a solid by (x, y, z).
func (k *BspKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return unwrap(s).Translate(v3.Vec{X: x, Y: y, Z: z})
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *BspKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return unwrap(s).Transform(eulerDegrees(x, y, z))
}

// eulerDegrees returns the rotation applying x about X first, then y about
// Y, then z about Z.
func eulerDegrees(x, y, z float64) sdf.M44 {
	const d2r = math.Pi / 180.0
	return sdf.RotateZ(z * d2r).Mul(sdf.RotateY(y * d2r)).Mul(sdf.RotateX(x * d2r))
}

// ToMesh triangulates a solid. Identical vertices are shared between
// triangles; vertices on different faces keep their own normals.
func (k *BspKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	b := unwrap(s)
	if k.validate {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("bsp: to mesh: %w", err)
		}
	}
	return ToKernelMesh(b), nil
}
