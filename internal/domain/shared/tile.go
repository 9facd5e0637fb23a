package shared

import "fmt"

// TilePos is an immutable map tile coordinate
type TilePos struct {
	X int
	Y int
}

// NewTilePos creates a tile coordinate
func NewTilePos(x, y int) TilePos {
	return TilePos{X: x, Y: y}
}

// Add returns the component-wise sum of two positions
func (t TilePos) Add(other TilePos) TilePos {
	return TilePos{X: t.X + other.X, Y: t.Y + other.Y}
}

// Sub returns the component-wise difference t - other
func (t TilePos) Sub(other TilePos) TilePos {
	return TilePos{X: t.X - other.X, Y: t.Y - other.Y}
}

// Equals checks if two positions address the same tile
func (t TilePos) Equals(other TilePos) bool {
	return t.X == other.X && t.Y == other.Y
}

func (t TilePos) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}
