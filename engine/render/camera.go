package render

import (
	"math"

	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/nav"
)

// Camera is the viewport into the grid. Positions are in cell units with
// (0,0) at the top-left corner of cell (0,0).
type Camera struct {
	X, Y    float64 // view center (col, row)
	Zoom    float64 // 1.0 fits the whole map
	MinZoom float64
	MaxZoom float64
	ScreenW int
	ScreenH int
	Speed   float64 // pan speed in pixels per second

	fit        float64 // pixels per cell at zoom 1
	rows, cols int
}

// NewCamera creates a camera centered on a rows×cols map and zoomed to fit
func NewCamera(rows, cols, screenW, screenH int) *Camera {
	c := &Camera{
		Zoom:    1.0,
		MinZoom: 0.5,
		MaxZoom: 6.0,
		ScreenW: screenW,
		ScreenH: screenH,
		Speed:   500,
		rows:    rows,
		cols:    cols,
	}
	c.fit = math.Min(float64(screenW)/float64(cols), float64(screenH)/float64(rows))
	c.X, c.Y = float64(cols)/2, float64(rows)/2
	return c
}

// CellSize returns the on-screen size of one cell in pixels
func (c *Camera) CellSize() float32 { return float32(c.fit * c.Zoom) }

// Pan moves the camera by a pixel delta
func (c *Camera) Pan(dx, dy float64) {
	scale := c.fit * c.Zoom
	c.X += dx / scale
	c.Y += dy / scale
	c.clamp()
}

// SetZoom sets zoom level with clamping
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomAt zooms while keeping the point under the cursor fixed
func (c *Camera) ZoomAt(delta float64, sx, sy int) {
	before := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom + delta)
	after := c.ScreenToWorld(sx, sy)
	c.X += before.Col - after.Col
	c.Y += before.Row - after.Row
	c.clamp()
}

// CenterOn centers the view on a cell
func (c *Camera) CenterOn(cell maplib.Cell) {
	c.X = float64(cell.Col) + 0.5
	c.Y = float64(cell.Row) + 0.5
	c.clamp()
}

// WorldToScreen converts a grid position to screen pixels
func (c *Camera) WorldToScreen(v nav.Vec) (float32, float32) {
	scale := c.fit * c.Zoom
	sx := (v.Col-c.X)*scale + float64(c.ScreenW)/2
	sy := (v.Row-c.Y)*scale + float64(c.ScreenH)/2
	return float32(sx), float32(sy)
}

// ScreenToWorld converts screen pixels to a grid position
func (c *Camera) ScreenToWorld(sx, sy int) nav.Vec {
	scale := c.fit * c.Zoom
	return nav.Vec{
		Row: (float64(sy)-float64(c.ScreenH)/2)/scale + c.Y,
		Col: (float64(sx)-float64(c.ScreenW)/2)/scale + c.X,
	}
}

// ScreenToCell returns the cell under a screen point. The result may be
// out of bounds.
func (c *Camera) ScreenToCell(sx, sy int) maplib.Cell {
	v := c.ScreenToWorld(sx, sy)
	return maplib.Cell{Row: int(math.Floor(v.Row)), Col: int(math.Floor(v.Col))}
}

// VisibleRange returns the inclusive cell range on screen, clamped to the map
func (c *Camera) VisibleRange() (minRow, minCol, maxRow, maxCol int) {
	tl := c.ScreenToCell(0, 0)
	br := c.ScreenToCell(c.ScreenW, c.ScreenH)
	minRow, minCol = max(tl.Row, 0), max(tl.Col, 0)
	maxRow, maxCol = min(br.Row, c.rows-1), min(br.Col, c.cols-1)
	return
}

// clamp keeps the view center on the map
func (c *Camera) clamp() {
	c.X = math.Max(0, math.Min(float64(c.cols), c.X))
	c.Y = math.Max(0, math.Min(float64(c.rows), c.Y))
}
