package graph

// MaterialSpec names the timber a part is cut from. It never affects
// geometry.
type MaterialSpec struct {
	Species   string  `json:"species,omitempty"`
	Thickness float64 `json:"thickness,omitempty"` // nominal, mm
	Grade     string  `json:"grade,omitempty"`
}

// BoardData is rectangular stock. Dimensions are length along X, width
// along Y and thickness along Z, in mm, with the minimum corner at the
// part origin.
type BoardData struct {
	Dimensions Vec3         `json:"dimensions"`
	Grain      Axis         `json:"grain"`
	Material   MaterialSpec `json:"material"`
}

// DowelData is round stock standing on the part origin along +Z.
type DowelData struct {
	Diameter float64      `json:"diameter"`
	Length   float64      `json:"length"`
	Grain    Axis         `json:"grain"`
	Material MaterialSpec `json:"material"`
}

// SphereData is a turned ball centred on the part origin.
type SphereData struct {
	Diameter float64      `json:"diameter"`
	Material MaterialSpec `json:"material"`
}

func (BoardData) nodeData()  {}
func (DowelData) nodeData()  {}
func (SphereData) nodeData() {}
