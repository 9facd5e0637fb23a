package routing

import (
	"container/heap"

	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// grid is the passability view a search runs against
type grid interface {
	width() int
	height() int
	passable(t shared.TilePos) bool
}

// searchGoal reports whether a tile satisfies the destination and estimates
// the remaining steps from it
type searchGoal interface {
	reached(t shared.TilePos) bool
	estimate(t shared.TilePos) int
}

// node is an open-set entry. seq breaks priority ties in insertion order so
// every peer expands the same nodes.
type node struct {
	tile     shared.TilePos
	cost     int
	priority int
	seq      int
}

type openSet []*node

func (pq openSet) Len() int { return len(pq) }
func (pq openSet) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}
func (pq openSet) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *openSet) Push(x interface{}) {
	*pq = append(*pq, x.(*node))
}
func (pq *openSet) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// findPath runs an 8-neighbour A* from start and returns the directions of
// the cheapest path to the first tile accepted by goal. Every step costs one.
// The boolean is false when no such tile is reachable within maxNodes expansions.
func findPath(g grid, start shared.TilePos, goal searchGoal, maxNodes int) ([]order.Direction, bool) {
	if goal.reached(start) {
		return nil, true
	}

	w, h := g.width(), g.height()
	index := func(t shared.TilePos) int { return t.Y*w + t.X }
	inBounds := func(t shared.TilePos) bool { return t.X >= 0 && t.Y >= 0 && t.X < w && t.Y < h }
	if !inBounds(start) {
		return nil, false
	}

	costSoFar := make([]int, w*h)
	for i := range costSoFar {
		costSoFar[i] = -1
	}
	cameFrom := make([]order.Direction, w*h)
	closed := make([]bool, w*h)

	pq := &openSet{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &node{tile: start, priority: goal.estimate(start), seq: seq})
	costSoFar[index(start)] = 0

	expanded := 0
	for pq.Len() > 0 {
		current := heap.Pop(pq).(*node)
		ci := index(current.tile)
		if closed[ci] {
			continue
		}
		closed[ci] = true

		if goal.reached(current.tile) {
			return reconstruct(start, current.tile, cameFrom, index), true
		}
		expanded++
		if maxNodes > 0 && expanded > maxNodes {
			return nil, false
		}

		for _, d := range order.Directions() {
			next := current.tile.Add(d.Offset())
			if !inBounds(next) || !g.passable(next) {
				continue
			}
			ni := index(next)
			if closed[ni] {
				continue
			}
			newCost := current.cost + 1
			if costSoFar[ni] >= 0 && newCost >= costSoFar[ni] {
				continue
			}
			costSoFar[ni] = newCost
			cameFrom[ni] = d
			seq++
			heap.Push(pq, &node{tile: next, cost: newCost, priority: newCost + goal.estimate(next), seq: seq})
		}
	}
	return nil, false
}

func reconstruct(start, end shared.TilePos, cameFrom []order.Direction, index func(shared.TilePos) int) []order.Direction {
	var reversed []order.Direction
	for t := end; !t.Equals(start); {
		d := cameFrom[index(t)]
		reversed = append(reversed, d)
		t = t.Sub(d.Offset())
	}
	steps := make([]order.Direction, len(reversed))
	for i, d := range reversed {
		steps[len(reversed)-1-i] = d
	}
	return steps
}
