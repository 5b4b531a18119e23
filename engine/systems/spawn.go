package systems

import (
	"log/slog"
	"math/rand/v2"

	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/nav"
	"github.com/1siamBot/td-engine/engine/pathfind"
)

// AgentKind parameterizes a spawned enemy
type AgentKind struct {
	Name   string
	Speed  float64 // hop speed multiplier
	Health int
	Damage int
}

var (
	Basic  = AgentKind{Name: "basic", Speed: 1, Health: 10, Damage: 10}
	Runner = AgentKind{Name: "runner", Speed: 2, Health: 6, Damage: 5}
	Giant  = AgentKind{Name: "giant", Speed: 0.5, Health: 40, Damage: 50}
)

// SpawnSystem places new agents on free border cells every Interval ticks
// until Cap agents are alive.
type SpawnSystem struct {
	Grid     *pathfind.NavGrid
	Kinds    []AgentKind
	Interval uint64
	Cap      int
	Rand     *rand.Rand
	Bus      *core.EventBus
	Log      *slog.Logger

	Spawned int
}

func (s *SpawnSystem) Priority() int { return 5 }

func (s *SpawnSystem) Update(w *core.World, dt float64) {
	if s.Interval == 0 || len(s.Kinds) == 0 || w.TickCount%s.Interval != 0 {
		return
	}
	if len(w.Query(core.CompNavigator)) >= s.Cap {
		return
	}
	k := s.Kinds[s.Rand.IntN(len(s.Kinds))]
	s.Spawn(w, k)
}

// Spawn creates one agent of kind k on a random free border cell. It
// returns false when every border cell is occupied.
func (s *SpawnSystem) Spawn(w *core.World, k AgentKind) (core.EntityID, bool) {
	var free []maplib.Cell
	for _, c := range s.Grid.Terrain.BorderCells() {
		if !s.Grid.Blocked(c) {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return 0, false
	}
	cell := free[s.Rand.IntN(len(free))]
	return s.SpawnAt(w, k, cell), true
}

// SpawnAt creates one agent of kind k resting on cell
func (s *SpawnSystem) SpawnAt(w *core.World, k AgentKind, cell maplib.Cell) core.EntityID {
	id := w.Spawn()
	w.Attach(id, &core.Navigator{Agent: nav.NewAgent(cell, k.Speed)})
	w.Attach(id, &core.Unit{Kind: k.Name, Damage: k.Damage})
	w.Attach(id, &core.Health{Current: k.Health, Max: k.Health})
	s.Spawned++
	if s.Log != nil {
		s.Log.Info("agent spawned", "id", id, "kind", k.Name, "cell", cell)
	}
	s.Bus.Emit(core.Event{Type: core.EvtAgentSpawned, Tick: w.TickCount, Payload: id})
	return id
}
