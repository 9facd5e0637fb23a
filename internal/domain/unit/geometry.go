package unit

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/pkg/utils"
)

// MapDistance returns the tile distance between the footprints of two units
func MapDistance(a, b *Unit) int {
	return MapDistanceBetweenTypes(a.Type, a.Tile, b.Type, b.Tile)
}

// MapDistanceToTile returns the distance from a unit footprint to a single tile
func MapDistanceToTile(a *Unit, tile shared.TilePos) int {
	return footprintDistance(a.Tile, a.Type.TileWidth, a.Type.TileHeight, tile, 1, 1)
}

// MapDistanceBetweenTypes measures the gap between two footprints placed at
// pos1 and pos2. Adjacent footprints are at distance 1, overlapping ones at 0.
func MapDistanceBetweenTypes(src *Type, pos1 shared.TilePos, dst *Type, pos2 shared.TilePos) int {
	return footprintDistance(pos1, src.TileWidth, src.TileHeight, pos2, dst.TileWidth, dst.TileHeight)
}

func footprintDistance(pos1 shared.TilePos, w1, h1 int, pos2 shared.TilePos, w2, h2 int) int {
	dx, dy := footprintGap(pos1, w1, h1, pos2, w2, h2)
	return utils.Isqrt(dx*dx + dy*dy)
}

// FootprintGap returns the per-axis tile gap between two footprints
func FootprintGap(src *Type, pos1 shared.TilePos, dst *Type, pos2 shared.TilePos) (int, int) {
	return footprintGap(pos1, src.TileWidth, src.TileHeight, pos2, dst.TileWidth, dst.TileHeight)
}

func footprintGap(pos1 shared.TilePos, w1, h1 int, pos2 shared.TilePos, w2, h2 int) (int, int) {
	var dx, dy int
	if pos1.X+w1 <= pos2.X {
		dx = max(0, pos2.X-pos1.X-w1+1)
	} else {
		dx = max(0, pos1.X-pos2.X-w2+1)
	}
	if pos1.Y+h1 <= pos2.Y {
		dy = max(0, pos2.Y-pos1.Y-h1+1)
	} else {
		dy = max(0, pos1.Y-pos2.Y-h2+1)
	}
	return dx, dy
}
