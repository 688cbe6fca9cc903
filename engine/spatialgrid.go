package engine

import (
	"math"
	"sort"

	"github.com/simuforge/simuforge/actor"
)

// CellKey identifies a cell in the uniform spatial hash grid.
type CellKey struct {
	X, Y, Z int64
}

// Pair is a candidate colliding body pair, always ordered BodyA < BodyB by
// dense id so downstream narrow-phase and reductions stay deterministic.
type Pair struct {
	BodyA int
	BodyB int
}

// SpatialGrid buckets bodies into fixed-size cells for broad-phase pruning.
// Population and pair generation are both sequential and produce a pair
// list sorted by (BodyA, BodyB), independent of Go's map iteration order.
type SpatialGrid struct {
	cellSize float64
	cells    map[CellKey][]int
}

// NewSpatialGrid creates a grid with the given cell size. numCellsHint sizes
// the initial bucket map to reduce rehashing for large worlds.
func NewSpatialGrid(cellSize float64, numCellsHint int) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1.0
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[CellKey][]int, numCellsHint),
	}
}

// Clear empties all cells while keeping the underlying map allocation.
func (g *SpatialGrid) Clear() {
	for k := range g.cells {
		delete(g.cells, k)
	}
}

// Build clears and repopulates the grid from the given bodies, in id order.
func (g *SpatialGrid) Build(bodies []*actor.RigidBody) {
	g.Clear()
	for i, body := range bodies {
		g.insert(i, body)
	}
}

func (g *SpatialGrid) insert(bodyIndex int, body *actor.RigidBody) {
	aabb := body.Shape.GetAABB()
	minCell := g.worldToCell(aabb.Min)
	maxCell := g.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				key := CellKey{x, y, z}
				g.cells[key] = append(g.cells[key], bodyIndex)
			}
		}
	}
}

func (g *SpatialGrid) worldToCell(p [3]float64) CellKey {
	return CellKey{
		X: int64(math.Floor(p[0] / g.cellSize)),
		Y: int64(math.Floor(p[1] / g.cellSize)),
		Z: int64(math.Floor(p[2] / g.cellSize)),
	}
}

// FindPairs returns every candidate colliding pair among bodies whose AABBs
// overlap, skipping static-static pairs and pairs where both bodies are
// asleep. The grid must already have been populated via Build. The result
// is deduplicated and sorted by (BodyA, BodyB) so it never depends on map
// iteration order.
func (g *SpatialGrid) FindPairs(bodies []*actor.RigidBody) []Pair {
	seen := make(map[Pair]bool)

	for i, body := range bodies {
		aabb := body.Shape.GetAABB()
		minCell := g.worldToCell(aabb.Min)
		maxCell := g.worldToCell(aabb.Max)

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					for _, j := range g.cells[CellKey{x, y, z}] {
						if j <= i {
							continue
						}
						other := bodies[j]

						if body.BodyType != actor.BodyTypeDynamic && other.BodyType != actor.BodyTypeDynamic {
							continue
						}
						if body.IsSleeping && other.IsSleeping {
							continue
						}
						if !aabb.Overlaps(other.Shape.GetAABB()) {
							continue
						}

						seen[Pair{BodyA: i, BodyB: j}] = true
					}
				}
			}
		}
	}

	pairs := make([]Pair, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].BodyA != pairs[b].BodyA {
			return pairs[a].BodyA < pairs[b].BodyA
		}
		return pairs[a].BodyB < pairs[b].BodyB
	})

	return pairs
}
