//go:build manifold

// Package manifold binds kernel.Kernel to the Manifold C API (manifoldc),
// which guarantees watertight results from mesh booleans. It needs
// libmanifoldc under /usr/local and is only built with -tags=manifold.
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/chazu/kerf/pkg/kernel"
)

var _ kernel.Kernel = (*ManifoldKernel)(nil)

type handle = *C.ManifoldManifold

type solid struct{ ptr handle }

func (s *solid) BoundingBox() (lo, hi [3]float64) {
	bb := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(bb)
	lo = [3]float64{float64(C.manifold_box_min_x(bb)), float64(C.manifold_box_min_y(bb)), float64(C.manifold_box_min_z(bb))}
	hi = [3]float64{float64(C.manifold_box_max_x(bb)), float64(C.manifold_box_max_y(bb)), float64(C.manifold_box_max_z(bb))}
	return lo, hi
}

// build allocates a manifold, lets fn fill it and hands ownership to the
// garbage collector.
func build(fn func(mem handle) handle) kernel.Solid {
	s := &solid{ptr: fn(C.manifold_alloc_manifold())}
	runtime.SetFinalizer(s, func(s *solid) { C.manifold_delete_manifold(s.ptr) })
	return s
}

func ptr(s kernel.Solid) handle {
	m, ok := s.(*solid)
	if !ok {
		panic(fmt.Sprintf("manifold: foreign solid %T", s))
	}
	return m.ptr
}

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct{}

func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

func (k *ManifoldKernel) Box(x, y, z float64) kernel.Solid {
	return build(func(mem handle) handle {
		return C.manifold_cube(mem, C.double(x), C.double(y), C.double(z), 0)
	})
}

// Cylinder stands on z=0 with equal top and bottom radii.
func (k *ManifoldKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return build(func(mem handle) handle {
		return C.manifold_cylinder(mem, C.double(height), C.double(radius), C.double(radius), C.int(segments), 0)
	})
}

// Sphere is centred on the origin. Zero segments lets Manifold choose.
func (k *ManifoldKernel) Sphere(radius float64, segments int) kernel.Solid {
	segments = max(segments, 0)
	return build(func(mem handle) handle {
		return C.manifold_sphere(mem, C.double(radius), C.int(segments))
	})
}

func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return build(func(mem handle) handle { return C.manifold_union(mem, ptr(a), ptr(b)) })
}

func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return build(func(mem handle) handle { return C.manifold_difference(mem, ptr(a), ptr(b)) })
}

func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return build(func(mem handle) handle { return C.manifold_intersection(mem, ptr(a), ptr(b)) })
}

func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return build(func(mem handle) handle {
		return C.manifold_translate(mem, ptr(s), C.double(x), C.double(y), C.double(z))
	})
}

// Rotate takes degrees; manifoldc applies X, then Y, then Z.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return build(func(mem handle) handle {
		return C.manifold_rotate(mem, ptr(s), C.double(x), C.double(y), C.double(z))
	})
}

// ToMesh reads the MeshGL view of s. Vertex properties start with the
// position; normals follow when the manifold carries them, otherwise they are
// averaged from the faces.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	gl := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), ptr(s))
	defer C.manifold_delete_meshgl(gl)

	nVert := int(C.manifold_meshgl_num_vert(gl))
	nTri := int(C.manifold_meshgl_num_tri(gl))
	nProp := int(C.manifold_meshgl_num_prop(gl))
	if nVert == 0 || nTri == 0 {
		return &kernel.Mesh{}, nil
	}
	if nProp < 3 {
		return nil, fmt.Errorf("manifold: %d vertex properties, need at least 3", nProp)
	}

	props := make([]float32, nVert*nProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), gl)

	mesh := &kernel.Mesh{
		Vertices: make([]float32, 0, nVert*3),
		Indices:  make([]uint32, nTri*3),
	}
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&mesh.Indices[0])), gl)

	withNormals := nProp >= 6
	for v := range nVert {
		p := props[v*nProp:]
		mesh.Vertices = append(mesh.Vertices, p[0], p[1], p[2])
		if withNormals {
			mesh.Normals = append(mesh.Normals, p[3], p[4], p[5])
		}
	}
	if !withNormals {
		mesh.SmoothNormals()
	}
	return mesh, nil
}
