package graph

import (
	"fmt"
	"maps"
	"slices"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// findings accumulates the output of the checks.
type findings []ValidationError

func (f *findings) errorf(id NodeID, format string, args ...any) {
	*f = append(*f, ValidationError{NodeID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
}

func (f *findings) warnf(id NodeID, format string, args ...any) {
	*f = append(*f, ValidationError{NodeID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
}

// check inspects g and records what it finds. Checks never mutate the graph.
type check func(g *DesignGraph, f *findings)

// Tier 1 checks the shape of the graph, tier 2 the geometry it describes and
// tier 3 the material choices.
var (
	structuralChecks = []check{
		checkAcyclic,
		checkReferences,
		checkNames,
		checkRoots,
		checkFaceIDs,
		checkJoinParts,
		checkBooleans,
	}
	geometricChecks = []check{
		checkDimensions,
		checkDuplicateJoins,
		checkFastenerLength,
	}
	materialChecks = []check{
		checkEndGrainButtJoints,
	}
)

func run(g *DesignGraph, checks []check) findings {
	var f findings
	for _, c := range checks {
		c(g, &f)
	}
	return f
}

// Validate runs the structural checks and returns every finding, warnings
// included. An empty result means the graph is well formed.
func Validate(g *DesignGraph) []ValidationError {
	return run(g, structuralChecks)
}

// ValidateAll runs all three tiers and splits the findings into blocking
// errors and advisory warnings.
func ValidateAll(g *DesignGraph) ValidationResult {
	var result ValidationResult
	for _, tier := range [][]check{structuralChecks, geometricChecks, materialChecks} {
		for _, e := range run(g, tier) {
			if e.Severity == SeverityWarning {
				result.Warnings = append(result.Warnings, ValidationWarning{NodeID: e.NodeID, Message: e.Message})
			} else {
				result.Errors = append(result.Errors, e)
			}
		}
	}
	return result
}

// ref is a NodeID held in a node's payload rather than in its Children.
type ref struct {
	field string
	id    NodeID
}

// dataRefs returns the non-zero references in n's payload.
func dataRefs(n *Node) []ref {
	var refs []ref
	add := func(field string, id NodeID) {
		if !id.IsZero() {
			refs = append(refs, ref{field, id})
		}
	}
	switch d := n.Data.(type) {
	case JoinData:
		add("join part_a", d.PartA)
		add("join part_b", d.PartB)
		for _, fid := range d.Fasteners {
			add("join fastener", fid)
		}
	case DrillData:
		add("drill target_part", d.TargetPart)
	case FastenerData:
		add("fastener join_ref", d.JoinRef)
	}
	return refs
}

// checkAcyclic walks Children edges depth-first with three-color marking and
// reports the first cycle found.
func checkAcyclic(g *DesignGraph, f *findings) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[NodeID]int, len(g.Nodes))

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			f.errorf(id, "cycle detected: node %s is part of a cycle", id.Short())
			return true
		}
		color[id] = gray
		if n := g.Nodes[id]; n != nil {
			for _, c := range n.Children {
				if visit(c) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, n := range g.Ordered() {
		if color[n.ID] == white && visit(n.ID) {
			return
		}
	}
}

// checkReferences reports child and payload references to missing nodes.
func checkReferences(g *DesignGraph, f *findings) {
	for _, n := range g.Ordered() {
		for _, c := range n.Children {
			if g.Nodes[c] == nil {
				f.errorf(n.ID, "child reference %s does not exist", c.Short())
			}
		}
		for _, r := range dataRefs(n) {
			if g.Nodes[r.id] == nil {
				f.errorf(n.ID, "%s reference %s does not exist", r.field, r.id.Short())
			}
		}
	}
}

// checkNames reports stale NameIndex entries and names shared by several
// nodes.
func checkNames(g *DesignGraph, f *findings) {
	for _, name := range slices.Sorted(maps.Keys(g.NameIndex)) {
		id := g.NameIndex[name]
		if g.Nodes[id] == nil {
			f.errorf(ZeroID, "name index entry %q references non-existent node %s", name, id.Short())
		}
	}

	var names []string
	count := make(map[string]int)
	for _, n := range g.Ordered() {
		if n.Name == "" {
			continue
		}
		if count[n.Name] == 0 {
			names = append(names, n.Name)
		}
		count[n.Name]++
	}
	for _, name := range names {
		if count[name] > 1 {
			f.errorf(ZeroID, "duplicate name %q assigned to %d nodes", name, count[name])
		}
	}
}

// checkRoots reports roots that do not exist and warns about nodes that no
// root reaches through Children or payload references.
func checkRoots(g *DesignGraph, f *findings) {
	reachable := make(map[NodeID]bool, len(g.Nodes))
	var queue []NodeID
	mark := func(id NodeID) {
		if !reachable[id] {
			reachable[id] = true
			queue = append(queue, id)
		}
	}

	for _, id := range g.Roots {
		if g.Nodes[id] == nil {
			f.errorf(ZeroID, "root reference %s does not exist", id.Short())
			continue
		}
		mark(id)
	}

	for len(queue) > 0 {
		n := g.Nodes[queue[0]]
		queue = queue[1:]
		if n == nil {
			continue
		}
		for _, c := range n.Children {
			mark(c)
		}
		for _, r := range dataRefs(n) {
			mark(r.id)
		}
	}

	for _, n := range g.Ordered() {
		if reachable[n.ID] {
			continue
		}
		name := n.Name
		if name == "" {
			name = n.ID.Short()
		}
		f.warnf(n.ID, "node %q is not reachable from any root (orphan)", name)
	}
}

// checkFaceIDs reports join faces outside the six board faces.
func checkFaceIDs(g *DesignGraph, f *findings) {
	for _, n := range g.Joins() {
		jd, ok := n.Data.(JoinData)
		if !ok {
			continue
		}
		if !ValidFaceIDs[jd.FaceA] {
			f.errorf(n.ID, "invalid face_a %q", jd.FaceA)
		}
		if !ValidFaceIDs[jd.FaceB] {
			f.errorf(n.ID, "invalid face_b %q", jd.FaceB)
		}
	}
}

// checkJoinParts reports self-joins and joins whose parts are not primitives.
func checkJoinParts(g *DesignGraph, f *findings) {
	for _, n := range g.Joins() {
		jd, ok := n.Data.(JoinData)
		if !ok {
			continue
		}
		if jd.PartA == jd.PartB {
			f.errorf(n.ID, "join references the same part for both part_a and part_b (self-join)")
		}
		for _, side := range []ref{{"part_a", jd.PartA}, {"part_b", jd.PartB}} {
			if p := g.Nodes[side.id]; p != nil && p.Kind != NodePrimitive {
				f.errorf(n.ID, "join %s %s is %s, not primitive", side.field, side.id.Short(), p.Kind)
			}
		}
	}
}

// checkBooleans reports boolean nodes with fewer than two operands or with
// operands that produce no geometry.
func checkBooleans(g *DesignGraph, f *findings) {
	for _, n := range g.Booleans() {
		bd, ok := n.Data.(BooleanData)
		if !ok {
			continue
		}
		if len(n.Children) < 2 {
			f.errorf(n.ID, "%s needs at least 2 operands, got %d", bd.Op, len(n.Children))
		}
		for i, c := range n.Children {
			if child := g.Nodes[c]; child != nil && !child.Kind.IsGeometric() {
				f.errorf(n.ID, "%s operand %d is %s, not geometry", bd.Op, i, child.Kind)
			}
		}
	}
}
