package nav

import (
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/pathfind"
)

// Vec is a continuous (row, col) position or displacement
type Vec struct{ Row, Col float64 }

// VecOf converts a cell to its continuous position
func VecOf(c maplib.Cell) Vec { return Vec{float64(c.Row), float64(c.Col)} }

func (v Vec) Add(o Vec) Vec { return Vec{v.Row + o.Row, v.Col + o.Col} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.Row - o.Row, v.Col - o.Col} }

// HopTicks returns how many ticks a hop takes: the step cost between the
// two heights divided by the agent speed, at least 1. Non-positive speed
// counts as 1.
func HopTicks(from, to maplib.Height, speed float64) int {
	if speed <= 0 {
		speed = 1
	}
	n := int(float64(pathfind.StepCost(from, to)) / speed)
	if n < 1 {
		return 1
	}
	return n
}

// Motion interpolates one hop between adjacent cells as a queue of per-tick
// displacements. While steps remain, Pos plus their sum equals To exactly.
type Motion struct {
	Pos      Vec
	From, To maplib.Cell
	steps    []Vec
	ticks    int // length of the current hop
}

// Place puts the motion at rest on c
func (m *Motion) Place(c maplib.Cell) {
	m.Pos = VecOf(c)
	m.From, m.To = c, c
	m.steps, m.ticks = nil, 0
}

// BeginHop queues ticks displacement vectors moving from one cell to the
// next. The first ticks-1 vectors are equal; the last one absorbs rounding
// so the float sum is exactly to-from. ticks < 1 is clamped to 1.
func (m *Motion) BeginHop(from, to maplib.Cell, ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	m.From, m.To = from, to
	m.Pos = VecOf(from)
	m.split(VecOf(to).Sub(m.Pos), ticks)
}

// Reverse turns a hop in progress back toward From. The way back takes as
// many ticks as were already spent and ends exactly on From. A hop that has
// not moved yet ends at once.
func (m *Motion) Reverse() {
	elapsed := m.ticks - len(m.steps)
	m.From, m.To = m.To, m.From
	if elapsed < 1 {
		m.steps, m.ticks = nil, 0
		m.Pos = VecOf(m.To)
		return
	}
	m.split(VecOf(m.To).Sub(m.Pos), elapsed)
}

func (m *Motion) split(delta Vec, ticks int) {
	step := Vec{delta.Row / float64(ticks), delta.Col / float64(ticks)}
	m.ticks = ticks
	m.steps = make([]Vec, 0, ticks)
	var sum Vec
	for i := 0; i < ticks-1; i++ {
		m.steps = append(m.steps, step)
		sum = sum.Add(step)
	}
	m.steps = append(m.steps, delta.Sub(sum))
}

// Step pops the next displacement and applies it to Pos. It returns false
// once the hop is complete.
func (m *Motion) Step() (Vec, bool) {
	if len(m.steps) == 0 {
		return Vec{}, false
	}
	v := m.steps[0]
	m.steps = m.steps[1:]
	m.Pos = m.Pos.Add(v)
	if len(m.steps) == 0 {
		m.Pos = VecOf(m.To)
	}
	return v, true
}

// Active reports whether displacement vectors remain
func (m *Motion) Active() bool { return len(m.steps) > 0 }

// Remaining returns the number of ticks left in the hop
func (m *Motion) Remaining() int { return len(m.steps) }

// Snap cancels any pending steps and places the motion on To
func (m *Motion) Snap() maplib.Cell {
	m.steps, m.ticks = nil, 0
	m.Pos = VecOf(m.To)
	m.From = m.To
	return m.To
}
