// Package export writes tessellated designs to files for fabrication.
package export

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNoGeometry is returned when there is nothing to write.
var ErrNoGeometry = errors.New("no geometry to export")

// Triangles flattens meshes into one triangle soup in world space.
func Triangles(meshes []*kernel.Mesh) []*sdf.Triangle3 {
	var n int
	for _, m := range meshes {
		n += m.TriangleCount()
	}
	tris := make([]*sdf.Triangle3, 0, n)
	for _, m := range meshes {
		at := func(i uint32) v3.Vec {
			return v3.Vec{
				X: float64(m.Vertices[3*i]),
				Y: float64(m.Vertices[3*i+1]),
				Z: float64(m.Vertices[3*i+2]),
			}
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			tris = append(tris, &sdf.Triangle3{at(m.Indices[i]), at(m.Indices[i+1]), at(m.Indices[i+2])})
		}
	}
	return tris
}

// WriteSTL writes all meshes to a single binary STL file at path.
func WriteSTL(path string, meshes []*kernel.Mesh) error {
	tris := Triangles(meshes)
	if len(tris) == 0 {
		return fmt.Errorf("export: stl %s: %w", path, ErrNoGeometry)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("export: stl %s: %w", path, err)
	}
	return nil
}
