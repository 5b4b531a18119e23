package nav

import (
	"errors"

	"github.com/1siamBot/td-engine/engine/maplib"
)

// ErrEmptyQueue is returned when popping from an exhausted GoalQueue
var ErrEmptyQueue = errors.New("nav: goal queue is empty")

// GoalQueue is an agent's FIFO of pending waypoints. It never holds the
// agent's current cell, and when non-empty its last element is the final
// destination of the most recent path.
type GoalQueue struct {
	cells []maplib.Cell
}

// EnqueuePath appends a freshly computed path, dropping leading cells equal
// to the agent's current cell.
func (q *GoalQueue) EnqueuePath(current maplib.Cell, path []maplib.Cell) {
	for len(path) > 0 && path[0] == current {
		path = path[1:]
	}
	q.cells = append(q.cells, path...)
}

// PopNext removes and returns the first pending waypoint
func (q *GoalQueue) PopNext() (maplib.Cell, error) {
	if len(q.cells) == 0 {
		return maplib.Cell{}, ErrEmptyQueue
	}
	c := q.cells[0]
	q.cells = q.cells[1:]
	if len(q.cells) == 0 {
		q.cells = nil
	}
	return c, nil
}

// Peek returns the first pending waypoint without removing it
func (q *GoalQueue) Peek() (maplib.Cell, bool) {
	if len(q.cells) == 0 {
		return maplib.Cell{}, false
	}
	return q.cells[0], true
}

// Final returns the queue's ultimate destination
func (q *GoalQueue) Final() (maplib.Cell, bool) {
	if len(q.cells) == 0 {
		return maplib.Cell{}, false
	}
	return q.cells[len(q.cells)-1], true
}

// HasNext reports whether a waypoint is pending
func (q *GoalQueue) HasNext() bool { return len(q.cells) > 0 }

// Len returns the number of pending waypoints
func (q *GoalQueue) Len() int { return len(q.cells) }

// Clear drops every pending waypoint
func (q *GoalQueue) Clear() { q.cells = nil }

// Cells returns a copy of the pending waypoints
func (q *GoalQueue) Cells() []maplib.Cell {
	out := make([]maplib.Cell, len(q.cells))
	copy(out, q.cells)
	return out
}
