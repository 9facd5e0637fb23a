package order

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// Direction is one of the eight tile step directions, clockwise from north
type Direction int

const (
	DirNorth Direction = iota
	DirNorthEast
	DirEast
	DirSouthEast
	DirSouth
	DirSouthWest
	DirWest
	DirNorthWest
	numDirections
)

var directionOffsets = [numDirections]shared.TilePos{
	{X: 0, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
	{X: 0, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: -1},
}

// Directions returns all step directions in canonical order
func Directions() []Direction {
	return []Direction{DirNorth, DirNorthEast, DirEast, DirSouthEast, DirSouth, DirSouthWest, DirWest, DirNorthWest}
}

// Offset returns the tile delta of one step
func (d Direction) Offset() shared.TilePos {
	return directionOffsets[d]
}

// IsValid checks the direction range
func (d Direction) IsValid() bool {
	return d >= 0 && d < numDirections
}

// IsDiagonal returns true for the four corner directions
func (d Direction) IsDiagonal() bool {
	return d%2 == 1
}

// PathData is the movement state owned by every move-based order
type PathData struct {
	// Fast requests a fresh path on the next step
	Fast bool
	// Steps are the pending directions, next step first
	Steps []Direction
}

// Reset discards the cached path
func (p *PathData) Reset() {
	p.Fast = true
	p.Steps = nil
}

// Next pops the next step
func (p *PathData) Next() (Direction, bool) {
	if len(p.Steps) == 0 {
		return 0, false
	}
	d := p.Steps[0]
	p.Steps = p.Steps[1:]
	return d, true
}
