package graph

// checkDimensions reports primitives with a non-positive size.
func checkDimensions(g *DesignGraph, f *findings) {
	positive := func(id NodeID, what string, v float64) {
		if v <= 0 {
			f.errorf(id, "%s is %.4f, must be positive", what, v)
		}
	}

	for _, n := range g.Parts() {
		switch d := n.Data.(type) {
		case BoardData:
			positive(n.ID, "board dimension X", d.Dimensions.X)
			positive(n.ID, "board dimension Y", d.Dimensions.Y)
			positive(n.ID, "board dimension Z", d.Dimensions.Z)
		case DowelData:
			positive(n.ID, "dowel diameter", d.Diameter)
			positive(n.ID, "dowel length", d.Length)
		case SphereData:
			positive(n.ID, "ball diameter", d.Diameter)
		}
	}
}

// joinKey identifies a joint independently of which side is A.
type joinKey struct {
	partLo, partHi NodeID
	faceLo, faceHi FaceID
}

func makeJoinKey(partA NodeID, faceA FaceID, partB NodeID, faceB FaceID) joinKey {
	c := partA.Compare(partB)
	if c > 0 || (c == 0 && faceA > faceB) {
		partA, partB = partB, partA
		faceA, faceB = faceB, faceA
	}
	return joinKey{partLo: partA, partHi: partB, faceLo: faceA, faceHi: faceB}
}

// checkDuplicateJoins reports joins that connect the same part faces as an
// earlier join.
func checkDuplicateJoins(g *DesignGraph, f *findings) {
	seen := make(map[joinKey]NodeID)
	for _, n := range g.Joins() {
		jd, ok := n.Data.(JoinData)
		if !ok {
			continue
		}
		key := makeJoinKey(jd.PartA, jd.FaceA, jd.PartB, jd.FaceB)
		if first, dup := seen[key]; dup {
			f.errorf(n.ID, "duplicate join: same part-face pair already joined by node %s", first.Short())
			continue
		}
		seen[key] = n.ID
	}
}

// faceThickness returns the board's extent perpendicular to face: Y for
// top and bottom, X for left and right, Z for front and back.
func faceThickness(bd BoardData, face FaceID) float64 {
	switch face {
	case FaceTop, FaceBottom:
		return bd.Dimensions.Y
	case FaceLeft, FaceRight:
		return bd.Dimensions.X
	case FaceFront, FaceBack:
		return bd.Dimensions.Z
	default:
		return 0
	}
}

// eachButtBoards calls fn for every butt joint whose two parts are boards.
func eachButtBoards(g *DesignGraph, fn func(n *Node, jd JoinData, a, b BoardData)) {
	for _, n := range g.Joins() {
		jd, ok := n.Data.(JoinData)
		if !ok || jd.Kind != JoinButt {
			continue
		}
		pa, pb := g.Nodes[jd.PartA], g.Nodes[jd.PartB]
		if pa == nil || pb == nil {
			continue
		}
		a, okA := pa.Data.(BoardData)
		b, okB := pb.Data.(BoardData)
		if okA && okB {
			fn(n, jd, a, b)
		}
	}
}

// checkFastenerLength warns when a fastener is longer than the two boards of
// its butt joint are thick.
func checkFastenerLength(g *DesignGraph, f *findings) {
	eachButtBoards(g, func(n *Node, jd JoinData, a, b BoardData) {
		combined := faceThickness(a, jd.FaceA) + faceThickness(b, jd.FaceB)
		for _, fid := range jd.Fasteners {
			fn := g.Nodes[fid]
			if fn == nil {
				continue
			}
			fd, ok := fn.Data.(FastenerData)
			if ok && fd.Length > combined {
				f.warnf(fn.ID, "fastener length %.1fmm exceeds combined board thickness %.1fmm at joint %s",
					fd.Length, combined, n.ID.Short())
			}
		}
	})
}

// isEndGrainFace reports whether face is perpendicular to the grain.
func isEndGrainFace(grain Axis, face FaceID) bool {
	switch grain {
	case AxisX:
		return face == FaceLeft || face == FaceRight
	case AxisY:
		return face == FaceFront || face == FaceBack
	case AxisZ:
		return face == FaceTop || face == FaceBottom
	default:
		return false
	}
}

// checkEndGrainButtJoints warns about butt joints that glue end grain to end
// grain.
func checkEndGrainButtJoints(g *DesignGraph, f *findings) {
	eachButtBoards(g, func(n *Node, jd JoinData, a, b BoardData) {
		if isEndGrainFace(a.Grain, jd.FaceA) && isEndGrainFace(b.Grain, jd.FaceB) {
			f.warnf(n.ID, "end-grain to end-grain butt joint has poor glue adhesion; consider a different joint type or reinforcement")
		}
	})
}
