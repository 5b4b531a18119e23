package systems

import (
	"log/slog"

	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/nav"
	"github.com/1siamBot/td-engine/engine/towers"
)

// Arrival is the payload of EvtAgentArrived
type Arrival struct {
	Agent  core.EntityID
	Tower  nav.TargetID
	Damage int
}

// NavigationSystem ticks every agent's navigation controller once per tick,
// in ascending entity order. Agents that reach a live tower damage it and
// are removed; the damage is applied after all agents have moved so that
// occupancy never changes in the middle of a tick.
type NavigationSystem struct {
	Controller *nav.Controller
	Towers     *towers.Registry
	Bus        *core.EventBus
	Log        *slog.Logger

	last map[core.EntityID]nav.Outcome

	Arrivals    int
	Unreachable int
}

// NewNavigationSystem creates the system
func NewNavigationSystem(c *nav.Controller, reg *towers.Registry, bus *core.EventBus, log *slog.Logger) *NavigationSystem {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &NavigationSystem{
		Controller: c,
		Towers:     reg,
		Bus:        bus,
		Log:        log,
		last:       make(map[core.EntityID]nav.Outcome),
	}
}

func (s *NavigationSystem) Priority() int { return 10 }

func (s *NavigationSystem) Update(w *core.World, dt float64) {
	var arrived []Arrival
	for _, id := range w.Query(core.CompNavigator) {
		if !w.Alive(id) {
			continue
		}
		n := w.Get(id, core.CompNavigator).(*core.Navigator)
		out := s.Controller.Tick(n.Agent, s.Towers)

		switch out {
		case nav.OutcomeArrived:
			t, ok := s.Towers.At(n.Cell)
			if !ok {
				continue
			}
			dmg := 1
			if u, ok := w.Get(id, core.CompUnit).(*core.Unit); ok {
				dmg = u.Damage
			}
			arrived = append(arrived, Arrival{Agent: id, Tower: t.ID, Damage: dmg})
		case nav.OutcomeUnreachable:
			if s.last[id] != nav.OutcomeUnreachable {
				s.Unreachable++
				s.Bus.Emit(core.Event{Type: core.EvtPathUnreachable, Tick: w.TickCount, Payload: id})
			}
		}
		s.last[id] = out
	}

	for _, a := range arrived {
		s.Arrivals++
		if _, err := s.Towers.Damage(a.Tower, a.Damage); err != nil {
			// Already destroyed by an earlier arrival this tick
			s.Log.Debug("arrival at destroyed tower", "agent", a.Agent, "tower", a.Tower)
		}
		s.Bus.Emit(core.Event{Type: core.EvtAgentArrived, Tick: w.TickCount, Payload: a})
		s.Remove(w, a.Agent)
	}
}

// Remove destroys an agent, abandoning its navigation state
func (s *NavigationSystem) Remove(w *core.World, id core.EntityID) {
	if !w.Alive(id) {
		return
	}
	w.Destroy(id)
	delete(s.last, id)
	s.Bus.Emit(core.Event{Type: core.EvtAgentRemoved, Tick: w.TickCount, Payload: id})
}
