package bsp

// Node is one node of a BSP tree. Polygons holds the geometry lying in the
// node's plane; everything in front of the plane lives under Front and
// everything behind it under Back. A node with a nil Plane is empty.
//
// A node owns its children and its polygon list exclusively.
type Node struct {
	Plane    *Plane
	Front    *Node
	Back     *Node
	Polygons []*Polygon
}

// NewNode returns a tree built from polys. A nil or empty slice gives an
// empty node.
func NewNode(polys []*Polygon) *Node {
	n := &Node{}
	if len(polys) > 0 {
		n.Build(polys)
	}
	return n
}

// Build inserts polys into the tree. An empty node takes the plane of the
// first polygon. Calling Build on a populated tree is allowed and filters
// the new polygons down through the existing planes.
func (n *Node) Build(polys []*Polygon) {
	if len(polys) == 0 {
		return
	}
	if n.Plane == nil {
		pl := polys[0].Plane
		n.Plane = &pl
	}
	var front, back []*Polygon
	for _, p := range polys {
		n.Plane.SplitPolygon(p, &n.Polygons, &n.Polygons, &front, &back)
	}
	if len(front) > 0 {
		if n.Front == nil {
			n.Front = &Node{}
		}
		n.Front.Build(front)
	}
	if len(back) > 0 {
		if n.Back == nil {
			n.Back = &Node{}
		}
		n.Back.Build(back)
	}
}

// Invert converts solid space to empty space and back, in place.
func (n *Node) Invert() {
	for _, p := range n.Polygons {
		p.Flip()
	}
	if n.Plane != nil {
		n.Plane.Flip()
	}
	if n.Front != nil {
		n.Front.Invert()
	}
	if n.Back != nil {
		n.Back.Invert()
	}
	n.Front, n.Back = n.Back, n.Front
}

// ClipPolygons removes the parts of polys that are inside the solid this
// tree describes and returns what is left. Coplanar polygons are treated as
// ordinary front or back members here.
func (n *Node) ClipPolygons(polys []*Polygon) []*Polygon {
	if n.Plane == nil {
		return append([]*Polygon(nil), polys...)
	}
	var front, back []*Polygon
	for _, p := range polys {
		n.Plane.SplitPolygon(p, &front, &back, &front, &back)
	}
	if n.Front != nil {
		front = n.Front.ClipPolygons(front)
	}
	if n.Back == nil {
		// Behind a leaf plane is inside the solid.
		return front
	}
	return append(front, n.Back.ClipPolygons(back)...)
}

// ClipTo removes every polygon of this tree that lies inside other.
func (n *Node) ClipTo(other *Node) {
	n.Polygons = other.ClipPolygons(n.Polygons)
	if n.Front != nil {
		n.Front.ClipTo(other)
	}
	if n.Back != nil {
		n.Back.ClipTo(other)
	}
}

// AllPolygons returns the polygons of the whole tree: this node's first,
// then the front subtree, then the back subtree.
func (n *Node) AllPolygons() []*Polygon {
	polys := append([]*Polygon(nil), n.Polygons...)
	if n.Front != nil {
		polys = append(polys, n.Front.AllPolygons()...)
	}
	if n.Back != nil {
		polys = append(polys, n.Back.AllPolygons()...)
	}
	return polys
}

// Clone returns a deep copy of the tree.
func (n *Node) Clone() *Node {
	c := &Node{Polygons: make([]*Polygon, len(n.Polygons))}
	if n.Plane != nil {
		pl := *n.Plane
		c.Plane = &pl
	}
	for i, p := range n.Polygons {
		c.Polygons[i] = p.Clone()
	}
	if n.Front != nil {
		c.Front = n.Front.Clone()
	}
	if n.Back != nil {
		c.Back = n.Back.Clone()
	}
	return c
}

// Depth returns the number of levels in the tree. An empty node has depth 0.
func (n *Node) Depth() int {
	if n == nil || n.Plane == nil {
		return 0
	}
	d := n.Front.Depth()
	if b := n.Back.Depth(); b > d {
		d = b
	}
	return d + 1
}
