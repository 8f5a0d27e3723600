package engine

import (
	"fmt"

	"github.com/chazu/kerf/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// builder populates one DesignGraph during an evaluation. Anonymous nodes
// are numbered per evaluation, so the same source always yields the same IDs.
type builder struct {
	g    *graph.DesignGraph
	next map[string]int
}

// registerBuiltins installs the Kerf forms into env. Source must go through
// preprocessSource first so keywords arrive as "__kw_" strings.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	b := &builder{g: g, next: make(map[string]int)}
	forms := map[string]zygo.ZlispUserFunction{
		"material":     b.material,
		"board":        b.board,
		"dowel":        b.dowel,
		"ball":         b.ball,
		"defpart":      b.defpart,
		"part":         b.part,
		"vec3":         b.vec3,
		"place":        b.place,
		"butt_joint":   b.buttJoint,
		"screw":        b.screw,
		"assembly":     b.assembly,
		"union":        b.boolean(graph.BoolUnion),
		"difference":   b.boolean(graph.BoolDifference),
		"intersection": b.boolean(graph.BoolIntersection),
	}
	for name, fn := range forms {
		env.AddFunction(name, fn)
	}
}

// anon returns a fresh ID under prefix, e.g. "screw/1".
func (b *builder) anon(prefix string) graph.NodeID {
	b.next[prefix]++
	return graph.NewNodeID(fmt.Sprintf("%s/%d", prefix, b.next[prefix]))
}

// named returns the ID for prefix/name, numbering it when taken.
func (b *builder) named(prefix, name string) graph.NodeID {
	if id := graph.NewNodeID(prefix + "/" + name); b.g.Get(id) == nil {
		return id
	}
	return b.anon(prefix + "/" + name)
}

func (b *builder) add(n *graph.Node) (zygo.Sexp, error) {
	b.g.AddNode(n)
	return nodeRef(n.ID, n.Name), nil
}

// (material :species "white-oak" :thickness 19 :grade "FAS")
func (b *builder) material(_ *zygo.Zlisp, form string, args []zygo.Sexp) (zygo.Sexp, error) {
	var m graph.MaterialSpec
	err := keywords{
		"species":   textArg(&m.Species),
		"thickness": numberArg(&m.Thickness),
		"grade":     textArg(&m.Grade),
	}.only(form, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return wrap(m, fmt.Sprintf("(material :species %q)", m.Species)), nil
}

// (board :length 400 :width 200 :thickness 19 :grain :x :material oak)
//
// Length runs along X, width along Y and thickness along Z.
func (b *builder) board(_ *zygo.Zlisp, form string, args []zygo.Sexp) (zygo.Sexp, error) {
	var bd graph.BoardData
	err := keywords{
		"length":    numberArg(&bd.Dimensions.X),
		"width":     numberArg(&bd.Dimensions.Y),
		"thickness": numberArg(&bd.Dimensions.Z),
		"grain":     axisArg(&bd.Grain),
		"material":  materialArg(&bd.Material),
	}.only(form, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	d := bd.Dimensions
	return wrap[graph.NodeData](bd, fmt.Sprintf("(board %gx%gx%g)", d.X, d.Y, d.Z)), nil
}

// (dowel :diameter 8 :length 40 :grain :z :material oak)
func (b *builder) dowel(_ *zygo.Zlisp, form string, args []zygo.Sexp) (zygo.Sexp, error) {
	dd := graph.DowelData{Grain: graph.AxisZ}
	err := keywords{
		"diameter": numberArg(&dd.Diameter),
		"length":   numberArg(&dd.Length),
		"grain":    axisArg(&dd.Grain),
		"material": materialArg(&dd.Material),
	}.only(form, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return wrap[graph.NodeData](dd, fmt.Sprintf("(dowel %gx%g)", dd.Diameter, dd.Length)), nil
}

// (ball :diameter 30 :material oak)
func (b *builder) ball(_ *zygo.Zlisp, form string, args []zygo.Sexp) (zygo.Sexp, error) {
	var sd graph.SphereData
	err := keywords{
		"diameter": numberArg(&sd.Diameter),
		"material": materialArg(&sd.Material),
	}.only(form, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return wrap[graph.NodeData](sd, fmt.Sprintf("(ball %g)", sd.Diameter)), nil
}

// (defpart "name" (board ...))
func (b *builder) defpart(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("defpart requires a name and a body expression")
	}
	name, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
	}
	body, err := unwrap[graph.NodeData](args[1], "board, dowel or ball expression")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defpart %q: %w", name, err)
	}
	return b.add(&graph.Node{
		ID:   graph.NewNodeID("defpart/" + name),
		Kind: graph.NodePrimitive,
		Name: name,
		Data: body,
	})
}

// (part "name")
func (b *builder) part(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("part requires a name argument")
	}
	name, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
	}
	n := b.g.Lookup(name)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("part: no part named %q", name)
	}
	return nodeRef(n.ID, name), nil
}

// (vec3 1 2 3)
func (b *builder) vec3(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var xyz [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
		}
		xyz[i] = f
	}
	v := graph.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return wrap(v, fmt.Sprintf("(vec3 %g %g %g)", v.X, v.Y, v.Z)), nil
}

// (place (part "front") :at (vec3 0 0 19) :rotate (vec3 0 0 90))
func (b *builder) place(_ *zygo.Zlisp, form string, args []zygo.Sexp) (zygo.Sexp, error) {
	var td graph.TransformData
	rest, err := keywords{
		"at":     optPointArg(&td.Translation),
		"rotate": optPointArg(&td.Rotation),
	}.bind(form, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	if len(rest) != 1 {
		return zygo.SexpNull, fmt.Errorf("place requires exactly one part reference, got %d", len(rest))
	}
	child, err := unwrap[graph.NodeID](rest[0], "node reference")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("place: part: %w", err)
	}

	var id graph.NodeID
	if c := b.g.Get(child); c != nil && c.Name != "" {
		id = b.named("place", c.Name)
	} else {
		id = b.anon("place")
	}
	return b.add(&graph.Node{
		ID:       id,
		Kind:     graph.NodeTransform,
		Children: []graph.NodeID{child},
		Data:     td,
	})
}

// (butt-joint :part-a ref :face-a :left :part-b ref :face-b :front
//             :clearance 0.5 :fasteners (list ...))
//
// Each listed fastener gets its JoinRef pointed back at the new join.
func (b *builder) buttJoint(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	jd := graph.JoinData{Kind: graph.JoinButt, Params: graph.ButtJoinParams{}}
	err := keywords{
		"part-a":    refArg(&jd.PartA),
		"face-a":    faceArg(&jd.FaceA),
		"part-b":    refArg(&jd.PartB),
		"face-b":    faceArg(&jd.FaceB),
		"clearance": numberArg(&jd.Clearance),
		"fasteners": refsArg(&jd.Fasteners),
	}.only("butt-joint", args)
	if err != nil {
		return zygo.SexpNull, err
	}

	id := b.anon("butt-joint")
	for _, fid := range jd.Fasteners {
		if n := b.g.Get(fid); n != nil {
			if fd, ok := n.Data.(graph.FastenerData); ok {
				fd.JoinRef = id
				n.Data = fd
			}
		}
	}
	return b.add(&graph.Node{ID: id, Kind: graph.NodeJoin, Data: jd})
}

// (screw :diameter 4 :length 50 :position (vec3 0 50 0) :head-dia 8)
func (b *builder) screw(_ *zygo.Zlisp, form string, args []zygo.Sexp) (zygo.Sexp, error) {
	fd := graph.FastenerData{Kind: graph.FastenerScrew}
	err := keywords{
		"diameter": numberArg(&fd.Diameter),
		"length":   numberArg(&fd.Length),
		"position": pointArg(&fd.Position),
		"head-dia": numberArg(&fd.HeadDia),
	}.only(form, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return b.add(&graph.Node{ID: b.anon("screw"), Kind: graph.NodeFastener, Data: fd})
}

// (assembly "name" (place ...) (butt-joint ...) ...)
func (b *builder) assembly(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
	}
	name, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
	}
	children := make([]graph.NodeID, 0, len(args)-1)
	for i, a := range args[1:] {
		id, err := unwrap[graph.NodeID](a, "node reference")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly %q: child %d: %w", name, i+1, err)
		}
		children = append(children, id)
	}

	id := graph.NewNodeID("assembly/" + name)
	b.g.AddRoot(id)
	return b.add(&graph.Node{
		ID:       id,
		Kind:     graph.NodeGroup,
		Name:     name,
		Children: children,
		Data:     graph.GroupData{},
	})
}

// boolean returns the form for op:
//
//	(union ["name"] a b ...)
//
// An optional leading string names the result. Operands combine left to
// right.
func (b *builder) boolean(op graph.BooleanOp) zygo.ZlispUserFunction {
	form := op.String()
	return func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		var name string
		if len(args) > 0 {
			if str, ok := args[0].(*zygo.SexpStr); ok {
				if kw, isKw := isKW(str); isKw {
					return zygo.SexpNull, fmt.Errorf("%s: unexpected keyword :%s", form, kw)
				}
				name, args = str.S, args[1:]
			}
		}
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least 2 operands, got %d", form, len(args))
		}
		children := make([]graph.NodeID, 0, len(args))
		for i, a := range args {
			id, err := unwrap[graph.NodeID](a, "node reference")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", form, i, err)
			}
			children = append(children, id)
		}

		var id graph.NodeID
		switch {
		case name == "":
			id = b.anon(form)
		case b.g.Lookup(name) != nil:
			return zygo.SexpNull, fmt.Errorf("%s: name %q already defined", form, name)
		default:
			id = graph.NewNodeID(form + "/" + name)
		}
		return b.add(&graph.Node{
			ID:       id,
			Kind:     graph.NodeBoolean,
			Name:     name,
			Children: children,
			Data:     graph.BooleanData{Op: op},
		})
	}
}
