package shared

import "github.com/andrescamacho/skirmish-go/pkg/utils"

// Heading is a unit facing on a 256-step compass, 0 pointing north and
// increasing clockwise.
type Heading int

const (
	HeadingNorth     Heading = 0
	HeadingNorthEast Heading = 32
	HeadingEast      Heading = 64
	HeadingSouthEast Heading = 96
	HeadingSouth     Heading = 128
	HeadingSouthWest Heading = 160
	HeadingWest      Heading = 192
	HeadingNorthWest Heading = 224
)

// HeadingFromDelta picks the closest of the eight compass headings for a tile
// delta. Only integer arithmetic is used so every peer computes the same facing.
// A zero delta keeps the current heading.
func HeadingFromDelta(current Heading, delta TilePos) Heading {
	dx, dy := delta.X, delta.Y
	if dx == 0 && dy == 0 {
		return current
	}

	ax, ay := utils.Abs(dx), utils.Abs(dy)

	// tan(22.5deg) ~= 12/29
	switch {
	case 29*ay <= 12*ax:
		if dx > 0 {
			return HeadingEast
		}
		return HeadingWest
	case 29*ax <= 12*ay:
		if dy > 0 {
			return HeadingSouth
		}
		return HeadingNorth
	}

	switch {
	case dx > 0 && dy < 0:
		return HeadingNorthEast
	case dx > 0 && dy > 0:
		return HeadingSouthEast
	case dx < 0 && dy > 0:
		return HeadingSouthWest
	default:
		return HeadingNorthWest
	}
}
