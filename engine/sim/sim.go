// Package sim assembles a runnable simulation from a scenario.
package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/1siamBot/td-engine/engine/config"
	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/nav"
	"github.com/1siamBot/td-engine/engine/pathfind"
	"github.com/1siamBot/td-engine/engine/replay"
	"github.com/1siamBot/td-engine/engine/systems"
	"github.com/1siamBot/td-engine/engine/towers"
)

// Sim is a wired simulation
type Sim struct {
	Scenario *config.Scenario
	Loop     *core.GameLoop
	Terrain  *maplib.HeightGrid
	Towers   *towers.Registry
	Finder   *pathfind.Finder
	Nav      *systems.NavigationSystem
	Spawner  *systems.SpawnSystem
	Log      *slog.Logger

	// Recorder receives every command passed to Apply, if set
	Recorder *replay.Recorder
}

// New builds a simulation: loads terrain, places the starting towers and
// registers the spawn and navigation systems. The loop starts paused.
func New(sc *config.Scenario, log *slog.Logger) (*Sim, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	terrain, err := loadTerrain(sc.Terrain)
	if err != nil {
		return nil, err
	}

	loop := core.NewGameLoop(sc.TickRate)
	reg := towers.NewRegistry(terrain, loop.Bus, log.With("component", "towers"))
	reg.Tick = loop.CurrentTick
	for _, p := range sc.Towers {
		k, err := towers.KindByName(p.Kind)
		if err != nil {
			return nil, err
		}
		if _, err := reg.Place(k, maplib.Cell{Row: p.Row, Col: p.Col}); err != nil {
			return nil, err
		}
	}

	ng := pathfind.NewNavGrid(terrain, reg)
	finder := pathfind.NewFinder(ng, sc.PathCache, log.With("component", "pathfind"))
	if strings.EqualFold(sc.Search, "dijkstra") {
		finder.Mode = pathfind.Dijkstra
	}

	var scorer nav.Scorer
	if sc.Targeting != "" {
		es, err := nav.CompileScorer(sc.Targeting)
		if err != nil {
			return nil, err
		}
		scorer = es
	}
	ctrl := nav.NewController(finder, scorer, log.With("component", "nav"))

	kinds := make([]systems.AgentKind, len(sc.Agents.Kinds))
	for i, k := range sc.Agents.Kinds {
		kinds[i] = systems.AgentKind{Name: k.Name, Speed: k.Speed, Health: k.Health, Damage: k.Damage}
	}
	spawner := &systems.SpawnSystem{
		Grid:     ng,
		Kinds:    kinds,
		Interval: sc.Agents.SpawnInterval,
		Cap:      sc.Agents.Cap,
		Rand:     rand.New(rand.NewPCG(sc.Seed, sc.Seed^0x9e3779b97f4a7c15)),
		Bus:      loop.Bus,
		Log:      log.With("component", "spawn"),
	}
	navSys := systems.NewNavigationSystem(ctrl, reg, loop.Bus, log.With("component", "navigation"))

	loop.World.AddSystem(spawner)
	loop.World.AddSystem(navSys)

	s := &Sim{
		Scenario: sc,
		Loop:     loop,
		Terrain:  terrain,
		Towers:   reg,
		Finder:   finder,
		Nav:      navSys,
		Spawner:  spawner,
		Log:      log,
	}
	loop.Bus.On(core.EvtTowerDestroyed, func(e core.Event) {
		if t, ok := e.Payload.(towers.Tower); ok && t.Kind.Name == towers.Headquarters.Name && s.Lost() {
			log.Info("headquarters lost", "tick", e.Tick)
			loop.End()
		}
	})
	return s, nil
}

func loadTerrain(t config.Terrain) (*maplib.HeightGrid, error) {
	if t.File != "" {
		g, err := maplib.LoadFile(t.File)
		if err != nil {
			return nil, fmt.Errorf("sim: terrain: %w", err)
		}
		return g, nil
	}
	g, err := maplib.FromRows(t.Heights)
	if err != nil {
		return nil, fmt.Errorf("sim: terrain: %w", err)
	}
	return g, nil
}

// Lost reports whether every headquarters has been destroyed. A scenario
// that never placed one is never lost.
func (s *Sim) Lost() bool {
	placed := false
	for _, p := range s.Scenario.Towers {
		if strings.EqualFold(p.Kind, towers.Headquarters.Name) {
			placed = true
			break
		}
	}
	return placed && s.Towers.Count(towers.Headquarters) == 0
}

// Agents returns every live agent's navigation state in entity order
func (s *Sim) Agents() []*nav.Agent {
	w := s.Loop.World
	ids := w.Query(core.CompNavigator)
	out := make([]*nav.Agent, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.Get(id, core.CompNavigator).(*core.Navigator).Agent)
	}
	return out
}

// AgentInfo describes one agent for display
type AgentInfo struct {
	ID     core.EntityID
	Kind   string
	Cell   maplib.Cell // nearest cell to the agent's position
	Health core.Health
}

// Selection is what stands on one cell
type Selection struct {
	Tower  *towers.Tower // copy of the tower covering the cell, if any
	Agents []AgentInfo
}

// Inspect returns the tower covering cell and every agent whose position
// rounds to it, in entity order.
func (s *Sim) Inspect(cell maplib.Cell) Selection {
	var sel Selection
	if t, ok := s.Towers.At(cell); ok {
		cp := *t
		sel.Tower = &cp
	}
	w := s.Loop.World
	for _, id := range w.Query(core.CompNavigator, core.CompUnit, core.CompHealth) {
		p := w.Get(id, core.CompNavigator).(*core.Navigator).Pos()
		at := maplib.Cell{Row: int(math.Round(p.Row)), Col: int(math.Round(p.Col))}
		if at != cell {
			continue
		}
		sel.Agents = append(sel.Agents, AgentInfo{
			ID:     id,
			Kind:   w.Get(id, core.CompUnit).(*core.Unit).Kind,
			Cell:   at,
			Health: *w.Get(id, core.CompHealth).(*core.Health),
		})
	}
	return sel
}

// Stats summarizes a run
type Stats struct {
	Tick        uint64
	Agents      int
	Spawned     int
	Arrivals    int
	Unreachable int
	Towers      int
	Queries     uint64
	CacheHits   uint64
}

// Stats returns current counters
func (s *Sim) Stats() Stats {
	st := Stats{
		Tick:        s.Loop.CurrentTick(),
		Agents:      len(s.Loop.World.Query(core.CompNavigator)),
		Spawned:     s.Spawner.Spawned,
		Arrivals:    s.Nav.Arrivals,
		Unreachable: s.Nav.Unreachable,
		Towers:      len(s.Towers.Towers()),
		Queries:     s.Finder.Queries,
	}
	if s.Finder.Cache != nil {
		st.CacheHits = s.Finder.Cache.Hits
	}
	return st
}

// Apply executes a player command before the next tick runs and records it
func (s *Sim) Apply(c replay.Command) error {
	c.Tick = s.Loop.CurrentTick()
	if err := s.apply(c); err != nil {
		return err
	}
	if s.Recorder != nil {
		return s.Recorder.Record(c)
	}
	return nil
}

func (s *Sim) apply(c replay.Command) error {
	cell := maplib.Cell{Row: int(c.Row), Col: int(c.Col)}
	switch c.Op {
	case replay.OpPlace:
		k, err := towers.KindByName(c.Kind)
		if err != nil {
			return err
		}
		_, err = s.Towers.Place(k, cell)
		return err
	case replay.OpDestroy:
		t, ok := s.Towers.At(cell)
		if !ok {
			return fmt.Errorf("%w at %v", towers.ErrNotFound, cell)
		}
		return s.Towers.Destroy(t.ID)
	}
	return fmt.Errorf("sim: unknown command %v", c.Op)
}

// Replay schedules recorded commands. Each is applied at the start of its
// tick, before agents spawn or move.
func (s *Sim) Replay(cmds []replay.Command) {
	s.Loop.World.AddSystem(&replaySystem{sim: s, sched: replay.NewSchedule(cmds)})
}

type replaySystem struct {
	sim   *Sim
	sched *replay.Schedule
}

func (r *replaySystem) Priority() int { return 0 }

func (r *replaySystem) Update(w *core.World, dt float64) {
	for _, c := range r.sched.Due(w.TickCount) {
		if err := r.sim.apply(c); err != nil {
			r.sim.Log.Warn("replay command failed", "tick", w.TickCount, "op", c.Op, "row", c.Row, "col", c.Col, "err", err)
		}
	}
}
