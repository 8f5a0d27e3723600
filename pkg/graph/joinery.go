package graph

// JoinKind is the joint family of a JoinData.
type JoinKind int

const (
	JoinButt JoinKind = iota
)

var joinKindNames = []string{"butt"}

func (k JoinKind) String() string { return enumName(joinKindNames, int(k)) }

// JoinData records that FaceA of PartA meets FaceB of PartB. Joints are
// checked by the validator but cut nothing from the parts.
type JoinData struct {
	Kind      JoinKind   `json:"kind"`
	PartA     NodeID     `json:"part_a"`
	FaceA     FaceID     `json:"face_a"`
	PartB     NodeID     `json:"part_b"`
	FaceB     FaceID     `json:"face_b"`
	Clearance float64    `json:"clearance"` // mm; 0 uses the graph default
	Params    JoinParams `json:"params"`
	Fasteners []NodeID   `json:"fasteners,omitempty"`
}

// JoinParams carries the settings particular to one JoinKind.
type JoinParams interface {
	joinParams()
}

type ButtJoinParams struct {
	GlueUp bool `json:"glue_up"`
}

func (ButtJoinParams) joinParams() {}

// DrillData bores a hole into a face of TargetPart. Position is in the
// face's own coordinates and a zero Depth goes all the way through.
type DrillData struct {
	TargetPart NodeID  `json:"target_part"`
	Face       FaceID  `json:"face"`
	Position   Vec3    `json:"position"`
	Diameter   float64 `json:"diameter"`
	Depth      float64 `json:"depth"`
}

type FastenerKind int

const (
	FastenerScrew FastenerKind = iota
)

var fastenerKindNames = []string{"screw"}

func (k FastenerKind) String() string { return enumName(fastenerKindNames, int(k)) }

// FastenerData is a fastener driven through a joint. Sizes are in mm and
// Position is relative to the joint named by JoinRef.
type FastenerData struct {
	Kind     FastenerKind `json:"kind"`
	Diameter float64      `json:"diameter"`
	Length   float64      `json:"length"`
	HeadDia  float64      `json:"head_dia"`
	Position Vec3         `json:"position"`
	JoinRef  NodeID       `json:"join_ref"`
}

func (JoinData) nodeData()     {}
func (DrillData) nodeData()    {}
func (FastenerData) nodeData() {}
