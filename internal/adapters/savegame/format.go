package savegame

import "gopkg.in/yaml.v3"

// FormatVersion is written into every save
const FormatVersion = 1

// File is the YAML document of a save or scenario. Scenarios are saves
// without refs, anim state or orders; they may issue fresh orders instead.
type File struct {
	Version   int            `yaml:"version"`
	Session   string         `yaml:"session,omitempty"`
	Tick      int64          `yaml:"tick"`
	Map       MapSpec        `yaml:"map"`
	Players   []PlayerSpec   `yaml:"players"`
	UnitTypes []UnitTypeSpec `yaml:"unit_types"`
	Units     []UnitSpec     `yaml:"units"`
}

// MapSpec describes terrain
type MapSpec struct {
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Blocked [][2]int `yaml:"blocked,omitempty,flow"`
}

// PlayerSpec describes a player and its ledger
type PlayerSpec struct {
	ID        int            `yaml:"id"`
	Name      string         `yaml:"name"`
	AI        bool           `yaml:"ai,omitempty"`
	Resources map[string]int `yaml:"resources,omitempty"`
	Sequence  int64          `yaml:"sequence,omitempty"`
}

// UnitTypeSpec describes a unit type
type UnitTypeSpec struct {
	Ident           string         `yaml:"ident"`
	Name            string         `yaml:"name,omitempty"`
	MaxHP           int            `yaml:"max_hp"`
	TileSize        [2]int         `yaml:"tile_size,flow"`
	SightRange      int            `yaml:"sight_range,omitempty"`
	MoveTicks       int            `yaml:"move_ticks,omitempty"`
	RepairRange     int            `yaml:"repair_range,omitempty"`
	RepairHP        int            `yaml:"repair_hp,omitempty"`
	RepairCosts     map[string]int `yaml:"repair_costs,omitempty"`
	BuildCosts      map[string]int `yaml:"build_costs,omitempty"`
	Building        bool           `yaml:"building,omitempty"`
	VisibleUnderFog bool           `yaml:"visible_under_fog,omitempty"`
	RepairAnimation *AnimationSpec `yaml:"repair_animation,omitempty"`
}

// AnimationSpec is a frame script; each frame reads "<op> [arg]"
type AnimationSpec struct {
	Name   string   `yaml:"name"`
	Frames []string `yaml:"frames,flow"`
}

// UnitSpec describes one unit
type UnitSpec struct {
	Ref          string      `yaml:"ref,omitempty"`
	Type         string      `yaml:"type"`
	Player       int         `yaml:"player"`
	Tile         [2]int      `yaml:"tile,flow"`
	HP           int         `yaml:"hp"`
	Heading      int         `yaml:"heading,omitempty"`
	State        int         `yaml:"state,omitempty"`
	MoveWait     int         `yaml:"move_wait,omitempty"`
	Anim         *AnimSpec   `yaml:"anim,omitempty"`
	Destroyed    bool        `yaml:"destroyed,omitempty"`
	Removed      bool        `yaml:"removed,omitempty"`
	SeenBy       uint16      `yaml:"seen_by,omitempty"`
	Construction *int        `yaml:"construction,omitempty"`
	Orders       []yaml.Node `yaml:"orders,omitempty"`

	// Repair issues a fresh repair order against the referenced unit
	Repair string `yaml:"repair,omitempty"`
}

// AnimSpec is the saved playback cursor
type AnimSpec struct {
	Current     string `yaml:"current,omitempty"`
	Frame       int    `yaml:"frame,omitempty"`
	Wait        int    `yaml:"wait,omitempty"`
	Sprite      int    `yaml:"sprite,omitempty"`
	Unbreakable bool   `yaml:"unbreakable,omitempty"`
}
