package graph

// NodeKind says what role a node plays in the graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // board, dowel or ball stock
	NodeTransform                 // place
	NodeJoin                      // butt-joint
	NodeGroup                     // assembly
	NodeDrill                     // hole bored into a part
	NodeFastener                  // screw
	NodeBoolean                   // union, difference or intersection
)

var nodeKindNames = []string{"primitive", "transform", "join", "group", "drill", "fastener", "boolean"}

func (k NodeKind) String() string { return enumName(nodeKindNames, int(k)) }

// IsGeometric reports whether nodes of this kind produce a solid.
func (k NodeKind) IsGeometric() bool {
	switch k {
	case NodePrimitive, NodeTransform, NodeGroup, NodeBoolean:
		return true
	}
	return false
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

// Node is one vertex of the design graph. Children are ordered; for a
// boolean node the order is the operand order.
type Node struct {
	ID          NodeID      `json:"id"`
	Kind        NodeKind    `json:"kind"`
	Name        string      `json:"name,omitempty"`
	Source      SourceRef   `json:"source"`
	ContentHash ContentHash `json:"content_hash"`
	Children    []NodeID    `json:"children,omitempty"`
	Data        NodeData    `json:"data"`
}

// NodeData is the kind-specific payload of a Node. Only types in this
// package implement it.
type NodeData interface {
	nodeData()
}

// TransformData places its single child. Rotation is in degrees and applied
// about X, then Y, then Z before the translation.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"`
}

// GroupData gathers placed parts and joints under an assembly name.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

// BooleanOp selects how a boolean node folds its children.
type BooleanOp int

const (
	BoolUnion        BooleanOp = iota // inside any operand
	BoolDifference                    // first operand minus the rest
	BoolIntersection                  // inside every operand
)

var booleanOpNames = []string{"union", "difference", "intersection"}

func (op BooleanOp) String() string { return enumName(booleanOpNames, int(op)) }

// BooleanData folds the node's children left to right with Op.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (TransformData) nodeData() {}
func (GroupData) nodeData()     {}
func (BooleanData) nodeData()   {}
