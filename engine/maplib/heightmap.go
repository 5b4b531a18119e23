package maplib

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a cell lies outside the grid
var ErrOutOfBounds = errors.New("maplib: cell out of bounds")

// ErrBadShape is returned when height rows are empty or ragged
var ErrBadShape = errors.New("maplib: grid must be a non-empty rectangle")

// ErrBadHeight is returned when a height is outside [0, MaxHeight]
var ErrBadHeight = errors.New("maplib: height out of range")

// MaxHeight is the highest elevation a cell can hold
const MaxHeight = 255

// Height is the elevation of a single cell
type Height uint8

// Cell is one discrete grid position
type Cell struct{ Row, Col int }

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Add returns c offset by (dr, dc)
func (c Cell) Add(dr, dc int) Cell { return Cell{c.Row + dr, c.Col + dc} }

// Neighbor offsets in the fixed order down, up, right, left. Search
// tie-breaking depends on this order, so it must not change.
var neighborDirs = [4][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// HeightGrid is a fixed-size elevation field. It is never mutated after
// construction; loading new terrain builds a new grid.
type HeightGrid struct {
	rows, cols int
	heights    []Height // row-major: heights[row*cols + col]
}

// NewHeightGrid builds a grid from row-major heights
func NewHeightGrid(rows, cols int, heights []Height) (*HeightGrid, error) {
	if rows <= 0 || cols <= 0 || len(heights) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d with %d heights", ErrBadShape, rows, cols, len(heights))
	}
	hs := make([]Height, len(heights))
	copy(hs, heights)
	return &HeightGrid{rows: rows, cols: cols, heights: hs}, nil
}

// FromRows builds a grid from a slice of integer rows, checking that every
// value fits in a Height.
func FromRows(rows [][]int) (*HeightGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrBadShape
	}
	cols := len(rows[0])
	hs := make([]Height, 0, len(rows)*cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrBadShape, r, len(row), cols)
		}
		for c, v := range row {
			if v < 0 || v > MaxHeight {
				return nil, fmt.Errorf("%w: %d at (%d,%d)", ErrBadHeight, v, r, c)
			}
			hs = append(hs, Height(v))
		}
	}
	return &HeightGrid{rows: len(rows), cols: cols, heights: hs}, nil
}

// MustFromRows is FromRows for literal grids in tests and demos
func MustFromRows(rows [][]int) *HeightGrid {
	g, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Rows returns the grid height in cells
func (g *HeightGrid) Rows() int { return g.rows }

// Cols returns the grid width in cells
func (g *HeightGrid) Cols() int { return g.cols }

// Len returns the number of cells
func (g *HeightGrid) Len() int { return len(g.heights) }

// InBounds checks if a cell is inside the grid
func (g *HeightGrid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < g.rows && c.Col < g.cols
}

// Index returns the row-major index of an in-bounds cell
func (g *HeightGrid) Index(c Cell) int { return c.Row*g.cols + c.Col }

// CellAt is the inverse of Index
func (g *HeightGrid) CellAt(idx int) Cell { return Cell{idx / g.cols, idx % g.cols} }

// HeightAt returns the elevation of c
func (g *HeightGrid) HeightAt(c Cell) (Height, error) {
	if !g.InBounds(c) {
		return 0, fmt.Errorf("%w: %v in %dx%d grid", ErrOutOfBounds, c, g.rows, g.cols)
	}
	return g.heights[g.Index(c)], nil
}

// Neighbors returns the in-bounds 4-connected neighbors of c in the order
// down, up, right, left. No diagonals, no wraparound.
func (g *HeightGrid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range neighborDirs {
		n := c.Add(d[0], d[1])
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// BorderCells returns the perimeter ring clockwise starting at (0,0):
// top row left to right, right column downward, bottom row right to left,
// left column upward. Corners appear once.
func (g *HeightGrid) BorderCells() []Cell {
	if g.rows == 1 || g.cols == 1 {
		out := make([]Cell, 0, g.Len())
		for r := 0; r < g.rows; r++ {
			for c := 0; c < g.cols; c++ {
				out = append(out, Cell{r, c})
			}
		}
		return out
	}
	last := Cell{g.rows - 1, g.cols - 1}
	out := make([]Cell, 0, 2*(g.rows+g.cols)-4)
	for c := 0; c <= last.Col; c++ {
		out = append(out, Cell{0, c})
	}
	for r := 1; r <= last.Row; r++ {
		out = append(out, Cell{r, last.Col})
	}
	for c := last.Col - 1; c >= 0; c-- {
		out = append(out, Cell{last.Row, c})
	}
	for r := last.Row - 1; r >= 1; r-- {
		out = append(out, Cell{r, 0})
	}
	return out
}

// Heights returns a copy of the row-major height data
func (g *HeightGrid) Heights() []Height {
	out := make([]Height, len(g.heights))
	copy(out, g.heights)
	return out
}
