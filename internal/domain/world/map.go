package world

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Map is the tile grid units stand on
type Map struct {
	width   int
	height  int
	blocked []bool
}

// NewMap creates an all-passable map
func NewMap(width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, shared.NewValidationError("map_size", fmt.Sprintf("must be positive, got %dx%d", width, height))
	}
	return &Map{
		width:   width,
		height:  height,
		blocked: make([]bool, width*height),
	}, nil
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }

// InBounds checks that a tile lies on the map
func (m *Map) InBounds(t shared.TilePos) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < m.width && t.Y < m.height
}

// Block marks terrain as impassable
func (m *Map) Block(t shared.TilePos) {
	if m.InBounds(t) {
		m.blocked[t.Y*m.width+t.X] = true
	}
}

// IsBlocked returns true for impassable terrain or off-map tiles
func (m *Map) IsBlocked(t shared.TilePos) bool {
	if !m.InBounds(t) {
		return true
	}
	return m.blocked[t.Y*m.width+t.X]
}

// BlockedTiles lists impassable tiles in row-major order
func (m *Map) BlockedTiles() []shared.TilePos {
	var out []shared.TilePos
	for i, b := range m.blocked {
		if b {
			out = append(out, shared.NewTilePos(i%m.width, i/m.width))
		}
	}
	return out
}
