package graph

import "slices"

// DefaultClearance is the default joint clearance in mm.
const DefaultClearance = 0.25

// GlobalDefaults contains graph-wide default settings.
type GlobalDefaults struct {
	Clearance float64      `json:"clearance"` // default joint clearance mm
	Material  MaterialSpec `json:"material"`  // default material for new parts
	Units     string       `json:"units"`     // always "mm"
}

// DesignGraph is the result of one evaluation. Each evaluation builds a new
// graph; consumers treat it as read-only.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  GlobalDefaults    `json:"defaults"`
	Version   uint64            `json:"version"`

	order []NodeID // insertion order of Nodes
}

// New creates an empty DesignGraph with default settings.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: GlobalDefaults{
			Clearance: DefaultClearance,
			Units:     "mm",
		},
	}
}

// AddNode stores n, replacing any node with the same ID. A replaced node
// keeps its original position in the insertion order.
func (g *DesignGraph) AddNode(n *Node) {
	if _, ok := g.Nodes[n.ID]; !ok {
		g.order = append(g.order, n.ID)
	}
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Ordered returns every node in insertion order. Nodes written into Nodes
// without AddNode come last, sorted by ID.
func (g *DesignGraph) Ordered() []*Node {
	out := make([]*Node, 0, len(g.Nodes))
	seen := make(map[NodeID]bool, len(g.Nodes))
	for _, id := range g.order {
		if n, ok := g.Nodes[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, n)
		}
	}
	if len(out) == len(g.Nodes) {
		return out
	}
	var rest []*Node
	for id, n := range g.Nodes {
		if !seen[id] {
			rest = append(rest, n)
		}
	}
	slices.SortFunc(rest, func(a, b *Node) int { return a.ID.Compare(b.ID) })
	return append(out, rest...)
}

// OfKind returns the nodes of the given kind in insertion order.
func (g *DesignGraph) OfKind(kind NodeKind) []*Node {
	var out []*Node
	for _, n := range g.Ordered() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Parts returns all primitive nodes in the graph.
func (g *DesignGraph) Parts() []*Node { return g.OfKind(NodePrimitive) }

// Joins returns all join nodes in the graph.
func (g *DesignGraph) Joins() []*Node { return g.OfKind(NodeJoin) }

// Booleans returns all boolean nodes in the graph.
func (g *DesignGraph) Booleans() []*Node { return g.OfKind(NodeBoolean) }

// Children returns the child nodes of the given node. Dangling child IDs are
// skipped.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// PromoteOrphans registers as a root every geometric node that is neither a
// root nor the child of another node, in the order the nodes were added.
// Forms evaluated at top level without an enclosing assembly become visible
// this way.
func (g *DesignGraph) PromoteOrphans() {
	claimed := make(map[NodeID]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			claimed[c] = true
		}
	}
	for _, id := range g.Roots {
		claimed[id] = true
	}

	for _, n := range g.Ordered() {
		if claimed[n.ID] || !n.Kind.IsGeometric() {
			continue
		}
		claimed[n.ID] = true
		g.AddRoot(n.ID)
	}
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
