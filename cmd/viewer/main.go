// Command viewer runs a scenario in a window with a top-down debug view.
// Left click places the selected tower, right click destroys one. With
// -record the tower commands are saved for tdsim -replay.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/1siamBot/td-engine/engine/config"
	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/input"
	"github.com/1siamBot/td-engine/engine/render"
	"github.com/1siamBot/td-engine/engine/replay"
	"github.com/1siamBot/td-engine/engine/sim"
	"github.com/1siamBot/td-engine/engine/towers"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	ScreenWidth  = 960
	ScreenHeight = 720
)

var towerKeys = []struct {
	act  input.Action
	kind towers.Kind
}{
	{input.ActSelect1, towers.Wall},
	{input.ActSelect2, towers.Sniper},
	{input.ActSelect3, towers.Producer},
	{input.ActSelect4, towers.Headquarters},
}

// Game implements ebiten.Game
type Game struct {
	sim      *sim.Sim
	renderer *render.TopDown
	input    *input.State
	selected towers.Kind
	status   string
}

func NewGame(s *sim.Sim) *Game {
	g := &Game{
		sim:      s,
		renderer: render.NewTopDown(s.Terrain.Rows(), s.Terrain.Cols(), ScreenWidth, ScreenHeight),
		input:    input.NewState(),
		selected: towers.Wall,
	}
	s.Loop.Play()
	return g
}

func (g *Game) Update() error {
	loop := g.sim.Loop
	in := g.input
	cam := g.renderer.Camera
	in.Update()

	for _, tk := range towerKeys {
		if in.Just(tk.act) {
			g.selected = tk.kind
		}
	}
	if in.Just(input.ActPause) {
		if loop.State == core.StatePlaying {
			loop.Pause()
		} else {
			loop.Play()
		}
	}
	if in.Just(input.ActToggleGrid) {
		g.renderer.ShowGrid = !g.renderer.ShowGrid
	}
	if in.Just(input.ActTogglePaths) {
		g.renderer.ShowPath = !g.renderer.ShowPath
	}

	// Camera
	step := cam.Speed / float64(ebiten.TPS())
	if in.Held(input.ActPanUp) {
		cam.Pan(0, -step)
	}
	if in.Held(input.ActPanDown) {
		cam.Pan(0, step)
	}
	if in.Held(input.ActPanLeft) {
		cam.Pan(-step, 0)
	}
	if in.Held(input.ActPanRight) {
		cam.Pan(step, 0)
	}
	if in.Just(input.ActCenter) {
		for _, t := range g.sim.Towers.Towers() {
			if t.Kind.Name == towers.Headquarters.Name {
				cam.CenterOn(t.Anchor)
				break
			}
		}
	}
	if in.Dragging {
		cam.Pan(-float64(in.MouseDX), -float64(in.MouseDY))
	}
	if in.ScrollY != 0 {
		cam.ZoomAt(in.ScrollY*0.1*cam.Zoom, in.MouseX, in.MouseY)
	}

	cell := g.renderer.ScreenToCell(in.MouseX, in.MouseY)
	if in.LeftClick {
		g.apply(replay.Command{Op: replay.OpPlace, Kind: g.selected.Name, Row: int32(cell.Row), Col: int32(cell.Col)})
	}
	if in.RightClick {
		g.apply(replay.Command{Op: replay.OpDestroy, Row: int32(cell.Row), Col: int32(cell.Col)})
	}

	loop.Advance(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) apply(c replay.Command) {
	if err := g.sim.Apply(c); err != nil {
		g.status = err.Error()
		return
	}
	g.status = ""
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})
	g.renderer.DrawTerrain(screen, g.sim.Terrain)
	g.renderer.DrawTowers(screen, g.sim.Towers)

	w := g.sim.Loop.World
	for _, id := range w.Query(core.CompNavigator, core.CompUnit, core.CompHealth) {
		n := w.Get(id, core.CompNavigator).(*core.Navigator)
		u := w.Get(id, core.CompUnit).(*core.Unit)
		h := w.Get(id, core.CompHealth).(*core.Health)
		g.renderer.DrawAgent(screen, n.Agent, u.Kind, h.Ratio())
	}
	g.drawHUD(screen)
	g.drawSelection(screen)
}

// drawSelection lists the tower and agents under the cursor in the top
// right corner
func (g *Game) drawSelection(screen *ebiten.Image) {
	cell := g.renderer.ScreenToCell(g.input.MouseX, g.input.MouseY)
	if !g.sim.Terrain.InBounds(cell) {
		return
	}
	sel := g.sim.Inspect(cell)
	var b strings.Builder
	h, _ := g.sim.Terrain.HeightAt(cell)
	fmt.Fprintf(&b, "Cell (%d,%d) height %d\n", cell.Row, cell.Col, h)
	if t := sel.Tower; t != nil {
		fmt.Fprintf(&b, "Selected tower:\n  Name: %s\n  Health: %d/%d\n", t.Kind.Name, t.Health, t.Kind.Health)
	}
	if len(sel.Agents) > 0 {
		b.WriteString("Selected enemies:\n")
		for _, a := range sel.Agents {
			fmt.Fprintf(&b, "  #%d %s\n  Health: %d/%d\n", a.ID, a.Kind, a.Health.Current, a.Health.Max)
		}
	}
	ebitenutil.DebugPrintAt(screen, b.String(), ScreenWidth-220, 4)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.sim.Stats()
	state := "running"
	switch {
	case g.sim.Lost():
		state = "HEADQUARTERS LOST"
	case g.sim.Loop.State == core.StatePaused:
		state = "paused"
	}
	info := fmt.Sprintf(
		"Tick: %d | %s | FPS: %.0f\n"+
			"Agents: %d | Spawned: %d | Arrivals: %d | Towers: %d\n"+
			"Path queries: %d | Cache hits: %d\n"+
			"[1-4] Tower (%s) [LClick] Place [RClick] Destroy [Space] Pause [G] Grid [P] Paths\n"+
			"[WASD/drag] Pan [Wheel] Zoom [H] Center on HQ\n%s",
		st.Tick, state, ebiten.ActualFPS(),
		st.Agents, st.Spawned, st.Arrivals, st.Towers,
		st.Queries, st.CacheHits,
		g.selected.Name, g.status,
	)
	ebitenutil.DebugPrint(screen, info)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	scenarioPath := flag.String("scenario", "", "scenario YAML file (default: built-in scenario)")
	recordPath := flag.String("record", "", "write tower commands to this replay file")
	flag.Parse()

	sc := config.Default()
	if *scenarioPath != "" {
		var err error
		if sc, err = config.Load(*scenarioPath); err != nil {
			log.Fatal(err)
		}
	}
	lvl, err := config.ParseLevel(sc.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	s, err := sim.New(sc, logger)
	if err != nil {
		log.Fatal(err)
	}
	if *recordPath != "" {
		rec, err := replay.NewRecorder(*recordPath)
		if err != nil {
			log.Fatal(err)
		}
		defer rec.Close()
		s.Recorder = rec
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("td-engine viewer: " + sc.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewGame(s)); err != nil {
		logger.Error("viewer exited", "err", err)
	}
}
