package pathfind

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/1siamBot/td-engine/engine/maplib"
)

// Mode selects the search strategy
type Mode uint8

const (
	// AStar orders the frontier by cost plus MinStepCost*Manhattan
	AStar Mode = iota
	// Dijkstra orders the frontier by cost alone
	Dijkstra
)

func (m Mode) String() string {
	if m == Dijkstra {
		return "dijkstra"
	}
	return "astar"
}

// Result is the outcome of a path query. The zero value means no path.
type Result struct {
	Path []maplib.Cell // start..end inclusive
	Cost int
}

// Found reports whether a path exists
func (r Result) Found() bool { return len(r.Path) > 0 }

// Final returns the last cell of the path
func (r Result) Final() (maplib.Cell, bool) {
	if len(r.Path) == 0 {
		return maplib.Cell{}, false
	}
	return r.Path[len(r.Path)-1], true
}

// FindPath finds the least-cost path from start to end using A*.
// An unreachable end returns the zero Result and a nil error; only
// out-of-bounds endpoints are errors.
func FindPath(ng *NavGrid, start, end maplib.Cell) (Result, error) {
	return search(ng, start, end, AStar)
}

func search(ng *NavGrid, start, end maplib.Cell, mode Mode) (Result, error) {
	g := ng.Terrain
	if !g.InBounds(start) {
		return Result{}, fmt.Errorf("pathfind: start %v: %w", start, maplib.ErrOutOfBounds)
	}
	if !g.InBounds(end) {
		return Result{}, fmt.Errorf("pathfind: end %v: %w", end, maplib.ErrOutOfBounds)
	}
	if start == end {
		return Result{Path: []maplib.Cell{start}}, nil
	}

	n := g.Len()
	dist := make([]int, n)
	for i := range dist {
		dist[i] = math.MaxInt
	}
	came := make([]int, n)
	closed := make([]bool, n)

	h := func(c maplib.Cell) int {
		if mode == Dijkstra {
			return 0
		}
		return MinStepCost * (abs(c.Row-end.Row) + abs(c.Col-end.Col))
	}

	si, ei := g.Index(start), g.Index(end)
	dist[si] = 0
	came[si] = -1

	open := &nodeHeap{}
	var seq uint64
	heap.Push(open, node{idx: si, f: h(start), seq: seq})

	for open.Len() > 0 {
		cur := heap.Pop(open).(node)
		// Stale entry: a cheaper copy was already expanded
		if closed[cur.idx] {
			continue
		}
		closed[cur.idx] = true
		if cur.idx == ei {
			return Result{Path: reconstructPath(g, came, ei), Cost: dist[ei]}, nil
		}

		cc := g.CellAt(cur.idx)
		for _, nb := range g.Neighbors(cc) {
			if !ng.Passable(nb, end) {
				continue
			}
			ni := g.Index(nb)
			if closed[ni] {
				continue
			}
			tent := dist[cur.idx] + ng.Cost(cc, nb)
			if tent >= dist[ni] {
				continue
			}
			dist[ni] = tent
			came[ni] = cur.idx
			seq++
			heap.Push(open, node{idx: ni, f: tent + h(nb), seq: seq})
		}
	}
	return Result{}, nil // no path
}

func reconstructPath(g *maplib.HeightGrid, came []int, end int) []maplib.Cell {
	path := []maplib.Cell{}
	for i := end; i != -1; i = came[i] {
		path = append(path, g.CellAt(i))
	}
	// Reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// --- Priority queue ---

// node is a frontier entry. seq breaks ties in priority by insertion order.
type node struct {
	idx int
	f   int
	seq uint64
}

type nodeHeap []node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
