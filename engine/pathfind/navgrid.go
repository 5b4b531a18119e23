package pathfind

import "github.com/1siamBot/td-engine/engine/maplib"

// MinStepCost is the floor on the cost of any single move. Every edge
// weight is at least this, which keeps the graph non-negative and makes
// MinStepCost*Manhattan an admissible heuristic.
const MinStepCost = 10

// StepCost returns the cost of moving from a cell at height from to an
// adjacent cell at height to: the climb when it exceeds MinStepCost,
// MinStepCost otherwise (descents and shallow climbs).
func StepCost(from, to maplib.Height) int {
	if d := int(to) - int(from); d > MinStepCost {
		return d
	}
	return MinStepCost
}

// Occupancy reports cells blocked by placed structures. Version changes
// every time the set of occupied cells changes.
type Occupancy interface {
	Occupied(c maplib.Cell) bool
	Version() uint64
}

// NavGrid provides a navigation view of the terrain: heights from the
// grid, blocked cells from the occupancy source (may be nil).
type NavGrid struct {
	Terrain   *maplib.HeightGrid
	Occupancy Occupancy
}

// NewNavGrid builds a navigation grid over terrain and occupancy
func NewNavGrid(terrain *maplib.HeightGrid, occ Occupancy) *NavGrid {
	return &NavGrid{Terrain: terrain, Occupancy: occ}
}

// Passable checks if a cell can be entered. The goal cell is always
// passable when in bounds, since agents path onto the structure they target.
func (ng *NavGrid) Passable(c, goal maplib.Cell) bool {
	if !ng.Terrain.InBounds(c) {
		return false
	}
	if c == goal || ng.Occupancy == nil {
		return true
	}
	return !ng.Occupancy.Occupied(c)
}

// Blocked reports whether an in-bounds cell is occupied
func (ng *NavGrid) Blocked(c maplib.Cell) bool {
	return ng.Occupancy != nil && ng.Occupancy.Occupied(c)
}

// Version returns the occupancy version, or 0 when there is none
func (ng *NavGrid) Version() uint64 {
	if ng.Occupancy == nil {
		return 0
	}
	return ng.Occupancy.Version()
}

// Cost returns the step cost between two adjacent in-bounds cells
func (ng *NavGrid) Cost(from, to maplib.Cell) int {
	hf, _ := ng.Terrain.HeightAt(from)
	ht, _ := ng.Terrain.HeightAt(to)
	return StepCost(hf, ht)
}

// PathCost sums the step costs along a path. It returns an error if any
// cell is out of bounds; adjacency is not checked.
func PathCost(g *maplib.HeightGrid, path []maplib.Cell) (int, error) {
	total := 0
	for i := 1; i < len(path); i++ {
		hf, err := g.HeightAt(path[i-1])
		if err != nil {
			return 0, err
		}
		ht, err := g.HeightAt(path[i])
		if err != nil {
			return 0, err
		}
		total += StepCost(hf, ht)
	}
	return total, nil
}
