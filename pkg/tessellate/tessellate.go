// Package tessellate turns a design graph into triangle meshes with a
// geometry kernel. Every part reached from a root becomes one mesh, except
// below a boolean node: the whole boolean subtree is folded into a single
// solid first and meshed once under the boolean's name.
package tessellate

import (
	"fmt"

	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
)

// CircleSegments is the number of segments requested for dowels and balls.
const CircleSegments = 32

// Tessellate meshes every root of g with k. The graph is only read. Kernels
// panic on degenerate sizes; such a panic comes back as an error.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) (meshes []*kernel.Mesh, err error) {
	if g == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			meshes, err = nil, fmt.Errorf("tessellate: kernel panic: %v", r)
		}
	}()

	w := &walker{g: g, k: k}
	for _, id := range g.Roots {
		root := g.Get(id)
		if root == nil {
			continue
		}
		if err := w.visit(root); err != nil {
			return nil, fmt.Errorf("tessellate: root %s: %w", id.Short(), err)
		}
	}
	return w.meshes, nil
}

// walker carries the placements of the node being visited, outermost
// first, and the meshes produced so far.
type walker struct {
	g      *graph.DesignGraph
	k      kernel.Kernel
	frames []graph.TransformData
	meshes []*kernel.Mesh
}

func (w *walker) visit(n *graph.Node) error {
	switch n.Kind {
	case graph.NodePrimitive:
		s, err := stock(w.k, n)
		if err != nil {
			return err
		}
		return w.emit(n, s)

	case graph.NodeTransform:
		td, err := payload[graph.TransformData](n)
		if err != nil {
			return err
		}
		w.frames = append(w.frames, td)
		defer func() { w.frames = w.frames[:len(w.frames)-1] }()
		return w.visitChildren(n)

	case graph.NodeGroup:
		return w.visitChildren(n)

	case graph.NodeBoolean:
		s, err := solidOf(w.g, w.k, n)
		if err != nil || s == nil {
			return err
		}
		return w.emit(n, s)

	case graph.NodeJoin, graph.NodeFastener, graph.NodeDrill:
		// Joinery is metadata; fastener and drill geometry is not modelled.
		return nil
	}
	return fmt.Errorf("node %s: unknown kind %v", n.ID.Short(), n.Kind)
}

func (w *walker) visitChildren(n *graph.Node) error {
	for _, c := range w.g.Children(n) {
		if err := w.visit(c); err != nil {
			return err
		}
	}
	return nil
}

// emit places s by the current frames, innermost first, and meshes it
// under n's name. A solid with no surface left, such as a boolean whose
// operands cancel out, adds no mesh.
func (w *walker) emit(n *graph.Node, s kernel.Solid) error {
	for i := len(w.frames) - 1; i >= 0; i-- {
		s = place(w.k, s, w.frames[i])
	}
	mesh, err := w.k.ToMesh(s)
	if err != nil {
		return fmt.Errorf("node %s: to mesh: %w", n.ID.Short(), err)
	}
	if mesh.IsEmpty() {
		return nil
	}
	mesh.PartName = n.Name
	if mesh.PartName == "" {
		mesh.PartName = n.ID.Short()
	}
	w.meshes = append(w.meshes, mesh)
	return nil
}

// place rotates s about its own origin, then translates it.
func place(k kernel.Kernel, s kernel.Solid, td graph.TransformData) kernel.Solid {
	if r := td.Rotation; r != nil && *r != (graph.Vec3{}) {
		s = k.Rotate(s, r.X, r.Y, r.Z)
	}
	if t := td.Translation; t != nil && *t != (graph.Vec3{}) {
		s = k.Translate(s, t.X, t.Y, t.Z)
	}
	return s
}

func payload[T graph.NodeData](n *graph.Node) (T, error) {
	d, ok := n.Data.(T)
	if !ok {
		return d, fmt.Errorf("%s node %s carries %T", n.Kind, n.ID.Short(), n.Data)
	}
	return d, nil
}

// stock builds a primitive in its own frame. Dowels are cut along their
// grain axis.
func stock(k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	switch d := n.Data.(type) {
	case graph.BoardData:
		return k.Box(d.Dimensions.X, d.Dimensions.Y, d.Dimensions.Z), nil
	case graph.DowelData:
		s := k.Cylinder(d.Length, d.Diameter/2, CircleSegments)
		switch d.Grain {
		case graph.AxisX:
			s = k.Rotate(s, 0, 90, 0)
		case graph.AxisY:
			s = k.Rotate(s, -90, 0, 0)
		}
		return s, nil
	case graph.SphereData:
		return k.Sphere(d.Diameter/2, CircleSegments), nil
	}
	return nil, fmt.Errorf("primitive node %s carries %T", n.ID.Short(), n.Data)
}

// solidOf folds everything below n into one solid in n's frame, or nil when
// there is no geometry. Groups and placements union their children.
func solidOf(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		return stock(k, n)

	case graph.NodeTransform:
		td, err := payload[graph.TransformData](n)
		if err != nil {
			return nil, err
		}
		s, err := fold(g, k, n, graph.BoolUnion)
		if s == nil || err != nil {
			return nil, err
		}
		return place(k, s, td), nil

	case graph.NodeGroup:
		return fold(g, k, n, graph.BoolUnion)

	case graph.NodeBoolean:
		bd, err := payload[graph.BooleanData](n)
		if err != nil {
			return nil, err
		}
		return fold(g, k, n, bd.Op)
	}
	return nil, nil
}

// fold combines n's children left to right. A child without geometry is
// empty space: it drops out of a union, leaves a difference unchanged and
// empties an intersection.
func fold(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, op graph.BooleanOp) (kernel.Solid, error) {
	var acc kernel.Solid
	for i, c := range g.Children(n) {
		s, err := solidOf(g, k, c)
		if err != nil {
			return nil, fmt.Errorf("%s operand %d: %w", op, i, err)
		}
		if i == 0 {
			acc = s
			continue
		}
		switch op {
		case graph.BoolUnion:
			switch {
			case s == nil:
			case acc == nil:
				acc = s
			default:
				acc = k.Union(acc, s)
			}
		case graph.BoolDifference:
			if acc != nil && s != nil {
				acc = k.Difference(acc, s)
			}
		case graph.BoolIntersection:
			if acc == nil || s == nil {
				return nil, nil
			}
			acc = k.Intersection(acc, s)
		default:
			return nil, fmt.Errorf("boolean node %s: unknown op %v", n.ID.Short(), op)
		}
	}
	return acc, nil
}
