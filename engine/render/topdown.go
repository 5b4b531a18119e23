package render

import (
	"image/color"

	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/nav"
	"github.com/1siamBot/td-engine/engine/towers"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

var (
	lowColor  = colornames.Darkslategray
	highColor = colornames.Wheat
	pathColor = color.RGBA{255, 255, 0, 90}
	gridColor = color.RGBA{0, 0, 0, 60}
)

// TowerColors maps tower kinds to fill colors
var TowerColors = map[string]color.RGBA{
	towers.Wall.Name:         colornames.Slategray,
	towers.Sniper.Name:       colornames.Royalblue,
	towers.Producer.Name:     colornames.Goldenrod,
	towers.Headquarters.Name: colornames.Mediumblue,
}

// AgentColors maps agent kinds to fill colors
var AgentColors = map[string]color.RGBA{
	"basic":  colornames.Crimson,
	"runner": colornames.Orangered,
	"giant":  colornames.Darkred,
}

// TopDown draws the height grid, towers and agents as flat squares
type TopDown struct {
	Camera   *Camera
	ShowGrid bool
	ShowPath bool

	terrain *ebiten.Image // one pixel per cell, scaled on draw
}

// NewTopDown creates a renderer for a rows×cols map on a w×h screen
func NewTopDown(rows, cols, w, h int) *TopDown {
	return &TopDown{
		Camera:   NewCamera(rows, cols, w, h),
		ShowPath: true,
	}
}

// HeightColor blends between the low and high palette by elevation
func HeightColor(h maplib.Height) color.RGBA {
	t := float64(h) / maplib.MaxHeight
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.RGBA{
		lerp(lowColor.R, highColor.R),
		lerp(lowColor.G, highColor.G),
		lerp(lowColor.B, highColor.B),
		255,
	}
}

// ScreenToCell converts screen coordinates to a grid cell
func (r *TopDown) ScreenToCell(x, y int) maplib.Cell {
	return r.Camera.ScreenToCell(x, y)
}

// DrawTerrain draws the height layer and, when ShowGrid is set, the visible
// cell borders.
func (r *TopDown) DrawTerrain(screen *ebiten.Image, g *maplib.HeightGrid) {
	if r.terrain == nil {
		r.terrain = ebiten.NewImage(g.Cols(), g.Rows())
		for i, h := range g.Heights() {
			c := g.CellAt(i)
			r.terrain.Set(c.Col, c.Row, HeightColor(h))
		}
	}
	cs := float64(r.Camera.CellSize())
	x, y := r.Camera.WorldToScreen(nav.Vec{})
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(cs, cs)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(r.terrain, op)

	if !r.ShowGrid {
		return
	}
	minRow, minCol, maxRow, maxCol := r.Camera.VisibleRange()
	x0, y0 := r.Camera.WorldToScreen(nav.Vec{Row: float64(minRow), Col: float64(minCol)})
	x1, y1 := r.Camera.WorldToScreen(nav.Vec{Row: float64(maxRow + 1), Col: float64(maxCol + 1)})
	for row := minRow; row <= maxRow+1; row++ {
		_, ly := r.Camera.WorldToScreen(nav.Vec{Row: float64(row)})
		vector.StrokeLine(screen, x0, ly, x1, ly, 1, gridColor, false)
	}
	for col := minCol; col <= maxCol+1; col++ {
		lx, _ := r.Camera.WorldToScreen(nav.Vec{Col: float64(col)})
		vector.StrokeLine(screen, lx, y0, lx, y1, 1, gridColor, false)
	}
}

// DrawTowers draws every live tower's footprint
func (r *TopDown) DrawTowers(screen *ebiten.Image, reg *towers.Registry) {
	cs := r.Camera.CellSize()
	for _, t := range reg.Towers() {
		clr, ok := TowerColors[t.Kind.Name]
		if !ok {
			clr = colornames.Magenta
		}
		x, y := r.Camera.WorldToScreen(nav.VecOf(t.Anchor))
		size := cs * float32(t.Kind.Size)
		vector.DrawFilledRect(screen, x+1, y+1, size-2, size-2, clr, false)
		// Health bar
		frac := float32(t.Health) / float32(t.Kind.Health)
		vector.DrawFilledRect(screen, x+1, y+1, (size-2)*frac, 2, colornames.Lime, false)
	}
}

// DrawAgent draws one agent at its interpolated position, plus its
// remaining waypoints when ShowPath is set. A wounded agent gets a health
// bar; health is the fraction left.
func (r *TopDown) DrawAgent(screen *ebiten.Image, a *nav.Agent, kind string, health float64) {
	half := r.Camera.CellSize() / 2
	if r.ShowPath {
		prev := a.Pos()
		for _, c := range append([]maplib.Cell{a.Motion.To}, a.Goals.Cells()...) {
			px, py := r.Camera.WorldToScreen(prev)
			nx, ny := r.Camera.WorldToScreen(nav.VecOf(c))
			vector.StrokeLine(screen, px+half, py+half, nx+half, ny+half, 1, pathColor, false)
			prev = nav.VecOf(c)
		}
	}
	clr, ok := AgentColors[kind]
	if !ok {
		clr = colornames.Red
	}
	x, y := r.Camera.WorldToScreen(a.Pos())
	vector.DrawFilledCircle(screen, x+half, y+half, half*0.7, clr, true)
	if health < 1 {
		w := half * 1.4
		vector.DrawFilledRect(screen, x+half*0.3, y, w, 2, colornames.Black, false)
		vector.DrawFilledRect(screen, x+half*0.3, y, w*float32(max(health, 0)), 2, colornames.Lime, false)
	}
}
