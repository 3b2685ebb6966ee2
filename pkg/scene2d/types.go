package scene2d

// Scene2D is the complete 2D scene output for a top-down renderer.
type Scene2D struct {
	Metadata Metadata  `json:"metadata"`
	Floors   []Floor2D `json:"floors"`
}

// Metadata holds plan-level summary data.
type Metadata struct {
	Name        string     `json:"name"`
	SpaceCount  int        `json:"space_count"`
	ZoneCount   int        `json:"zone_count"`
	Bounds      [4]float64 `json:"bounds"` // min x, min y, max x, max y
	GeneratedAt string     `json:"generated_at"`
}

// Floor2D is one floor with its spaces and zone outlines.
type Floor2D struct {
	Name   string    `json:"name"`
	Spaces []Space2D `json:"spaces"`
	Zones  []Zone2D  `json:"zones"`
}

// Space2D is one space ready to draw. Path is SVG path data; Commands is the
// same outline for renderers that consume commands directly.
type Space2D struct {
	ID         string       `json:"id"`
	Name       string       `json:"name,omitempty"`
	Category   string       `json:"category"`
	Kind       string       `json:"kind"`
	Color      string       `json:"color,omitempty"`
	Center     [2]float64   `json:"center"`
	Boundary   [][2]float64 `json:"boundary"`
	Path       string       `json:"path"`
	Commands   []Command2D  `json:"commands"`
	Area       float64      `json:"area"`
	TargetArea float64      `json:"target_area"`
	Rotation   float64      `json:"rotation,omitempty"`
}

// Zone2D is the rounded hull drawn around one category.
type Zone2D struct {
	Category string       `json:"category"`
	Color    string       `json:"color,omitempty"`
	Members  []string     `json:"members"`
	Hull     [][2]float64 `json:"hull"`
	Path     string       `json:"path"`
}

// Command2D is one drawing command: op is M, L, Q, C or Z.
type Command2D struct {
	Op     string       `json:"op"`
	Points [][2]float64 `json:"points,omitempty"`
}
