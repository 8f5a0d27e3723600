package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/bsp"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/tessellate"
)

func makeBoard(name string, x, y, z float64) *graph.Node {
	return &graph.Node{
		ID:   graph.NewNodeID(name),
		Kind: graph.NodePrimitive,
		Name: name,
		Data: graph.BoardData{Dimensions: graph.Vec3{X: x, Y: y, Z: z}, Grain: graph.AxisX},
	}
}

func makeGroup(name string, children ...graph.NodeID) *graph.Node {
	return &graph.Node{
		ID:       graph.NewNodeID("assembly/" + name),
		Kind:     graph.NodeGroup,
		Name:     name,
		Children: children,
		Data:     graph.GroupData{},
	}
}

// makePlaceTransform creates a transform node with a translation only.
func makePlaceTransform(name string, tx, ty, tz float64, children ...graph.NodeID) *graph.Node {
	t := graph.Vec3{X: tx, Y: ty, Z: tz}
	return &graph.Node{
		ID:       graph.NewNodeID(name),
		Kind:     graph.NodeTransform,
		Children: children,
		Data:     graph.TransformData{Translation: &t},
	}
}

// box is an axis-aligned bounding box.
type box struct{ lo, hi [3]float64 }

// buildGraph adds nodes in order and roots the ones listed.
func buildGraph(nodes []*graph.Node, roots ...*graph.Node) *graph.DesignGraph {
	g := graph.New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, r := range roots {
		g.AddRoot(r.ID)
	}
	return g
}

func TestTessellate(t *testing.T) {
	tests := []struct {
		name  string
		build func() *graph.DesignGraph
		want  map[string]box // part name -> bounds
	}{
		{
			name:  "empty graph",
			build: graph.New,
			want:  map[string]box{},
		},
		{
			name: "single board",
			build: func() *graph.DesignGraph {
				shelf := makeBoard("shelf", 600, 300, 18)
				return buildGraph([]*graph.Node{shelf}, shelf)
			},
			want: map[string]box{"shelf": {hi: [3]float64{600, 300, 18}}},
		},
		{
			name: "placed board",
			build: func() *graph.DesignGraph {
				shelf := makeBoard("shelf", 100, 50, 10)
				place := makePlaceTransform("place/shelf", 200, 100, 50, shelf.ID)
				return buildGraph([]*graph.Node{shelf, place}, place)
			},
			want: map[string]box{"shelf": {[3]float64{200, 100, 50}, [3]float64{300, 150, 60}}},
		},
		{
			name: "assembly",
			build: func() *graph.DesignGraph {
				left := makeBoard("left-side", 18, 300, 400)
				right := makeBoard("right-side", 18, 300, 400)
				top := makeBoard("top", 600, 300, 18)
				pl := makePlaceTransform("place/left", 0, 0, 0, left.ID)
				pr := makePlaceTransform("place/right", 582, 0, 0, right.ID)
				pt := makePlaceTransform("place/top", 0, 0, 400, top.ID)
				shelf := &graph.Node{
					ID:       graph.NewNodeID("assembly/bookshelf"),
					Kind:     graph.NodeGroup,
					Name:     "bookshelf",
					Children: []graph.NodeID{pl.ID, pr.ID, pt.ID},
					Data:     graph.GroupData{},
				}
				return buildGraph([]*graph.Node{left, right, top, pl, pr, pt, shelf}, shelf)
			},
			want: map[string]box{
				"left-side":  {hi: [3]float64{18, 300, 400}},
				"right-side": {[3]float64{582, 0, 0}, [3]float64{600, 300, 400}},
				"top":        {[3]float64{0, 0, 400}, [3]float64{600, 300, 418}},
			},
		},
		{
			name: "metadata nodes carry no geometry",
			build: func() *graph.DesignGraph {
				a := makeBoard("side-a", 400, 300, 18)
				b := makeBoard("side-b", 600, 300, 18)
				join := &graph.Node{
					ID:   graph.NewNodeID("butt-joint/1"),
					Kind: graph.NodeJoin,
					Data: graph.JoinData{Kind: graph.JoinButt, PartA: a.ID, PartB: b.ID, Params: graph.ButtJoinParams{GlueUp: true}},
				}
				screw := &graph.Node{
					ID:   graph.NewNodeID("screw/1"),
					Kind: graph.NodeFastener,
					Data: graph.FastenerData{Kind: graph.FastenerScrew, Diameter: 4, Length: 30},
				}
				drill := &graph.Node{
					ID:   graph.NewNodeID("drill/1"),
					Kind: graph.NodeDrill,
					Data: graph.DrillData{TargetPart: a.ID, Face: graph.FaceTop, Diameter: 5, Depth: 10},
				}
				return buildGraph([]*graph.Node{a, b, join, screw, drill}, a, b, join, screw, drill)
			},
			want: map[string]box{
				"side-a": {hi: [3]float64{400, 300, 18}},
				"side-b": {hi: [3]float64{600, 300, 18}},
			},
		},
		{
			name: "dangling root is skipped",
			build: func() *graph.DesignGraph {
				shelf := makeBoard("shelf", 10, 10, 10)
				g := buildGraph([]*graph.Node{shelf}, shelf)
				g.AddRoot(graph.NewNodeID("gone"))
				return g
			},
			want: map[string]box{"shelf": {hi: [3]float64{10, 10, 10}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meshes, err := tessellate.Tessellate(tt.build(), bsp.New())
			if err != nil {
				t.Fatalf("Tessellate: %v", err)
			}
			if len(meshes) != len(tt.want) {
				t.Fatalf("got %d meshes, want %d", len(meshes), len(tt.want))
			}
			for _, m := range meshes {
				want, ok := tt.want[m.PartName]
				if !ok {
					t.Errorf("unexpected mesh %q", m.PartName)
					continue
				}
				if m.IsEmpty() || m.TriangleCount() == 0 {
					t.Errorf("mesh %q is empty", m.PartName)
				}
				assertBounds(t, m, want.lo, want.hi)
			}
		})
	}
}

func TestTessellateNilGraph(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil, bsp.New())
	if err != nil || meshes != nil {
		t.Errorf("Tessellate(nil) = %v, %v", meshes, err)
	}
}

// The sdfx kernel meshes by marching cubes, so only the rough placement is
// checked.
func TestTessellateSDFX(t *testing.T) {
	shelf := makeBoard("shelf", 100, 50, 10)
	place := makePlaceTransform("place/shelf", 200, 100, 50, shelf.ID)
	g := buildGraph([]*graph.Node{shelf, place}, place)

	var k kernel.Kernel = sdfx.New()
	meshes, err := tessellate.Tessellate(g, k)
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 1 || meshes[0].PartName != "shelf" {
		t.Fatalf("got %d meshes", len(meshes))
	}

	lo, hi := meshes[0].Bounds()
	want := [3]float64{250, 125, 55}
	for i := range 3 {
		if c := (lo[i] + hi[i]) / 2; math.Abs(c-want[i]) > 20 {
			t.Errorf("centre[%d] = %.1f, want near %.1f", i, c, want[i])
		}
	}
}
