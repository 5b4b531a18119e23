package nav

import (
	"fmt"
	"log/slog"

	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/pathfind"
)

// State is an agent's navigation phase
type State uint8

const (
	StateIdle    State = iota // no goal, no queue
	StatePathing              // path computed, queue loaded, no hop yet
	StateHopping              // interpolating toward the next waypoint
)

func (s State) String() string {
	switch s {
	case StatePathing:
		return "pathing"
	case StateHopping:
		return "hopping"
	default:
		return "idle"
	}
}

// Outcome reports what one Tick did
type Outcome uint8

const (
	OutcomeIdle        Outcome = iota // no live target
	OutcomeUnreachable                // targets exist but none can be reached
	OutcomePathing                    // a new path was loaded
	OutcomeHopping                    // moved one tick along a hop
	OutcomeArrived                    // standing on a live target's cell
)

var outcomeNames = [...]string{"idle", "unreachable", "pathing", "hopping", "arrived"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", o)
}

// Agent holds the navigation state of one moving unit
type Agent struct {
	Cell   maplib.Cell // last committed discrete cell
	Speed  float64     // multiplier; higher needs fewer ticks per hop
	Goals  GoalQueue
	Motion Motion
	State  State

	goal maplib.Cell // final cell of the last loaded path

	// Occupancy version and target count at the last failed search.
	// The agent does not search again until either changes.
	blocked      bool
	blockedVer   uint64
	blockedCount int
}

// NewAgent creates an idle agent resting on cell
func NewAgent(cell maplib.Cell, speed float64) *Agent {
	a := &Agent{Cell: cell, Speed: speed}
	a.Motion.Place(cell)
	return a
}

// Pos returns the agent's continuous position
func (a *Agent) Pos() Vec { return a.Motion.Pos }

// Controller drives agents along least-cost paths to live targets
type Controller struct {
	Finder *pathfind.Finder
	Scorer Scorer // nil means Nearest
	Log    *slog.Logger
}

// NewController creates a controller over a finder
func NewController(f *pathfind.Finder, s Scorer, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{Finder: f, Scorer: s, Log: log}
}

// Tick advances one agent by one simulation step
func (c *Controller) Tick(a *Agent, targets Targets) Outcome {
	// Drop a queue whose destination is no longer a live target
	if final, ok := a.Goals.Final(); ok && !targets.IsLiveTarget(final) {
		c.Log.Debug("goal lost, clearing queue", "cell", a.Cell, "goal", final)
		a.Goals.Clear()
	}

	// A structure placed on the cell being entered turns the agent back,
	// unless that cell is its goal or the way back is blocked too
	if m := &a.Motion; m.Active() && m.To != a.goal && c.Finder.Grid.Blocked(m.To) && !c.Finder.Grid.Blocked(m.From) {
		c.Log.Debug("hop blocked, turning back", "cell", a.Cell, "blocked", m.To)
		a.Goals.Clear()
		m.Reverse()
	}

	if _, ok := a.Motion.Step(); ok {
		a.State = StateHopping
		return OutcomeHopping
	}

	// Hop complete (or never started): commit the reached cell
	a.Cell = a.Motion.Snap()

	if a.Goals.HasNext() {
		next, _ := a.Goals.Peek()
		final, _ := a.Goals.Final()
		if next != final && c.Finder.Grid.Blocked(next) {
			// A structure was placed on the route
			c.Log.Debug("route blocked, re-pathing", "cell", a.Cell, "blocked", next)
			a.Goals.Clear()
		} else {
			c.beginHop(a)
			return OutcomeHopping
		}
	}

	if targets.IsLiveTarget(a.Cell) {
		a.State = StateIdle
		return OutcomeArrived
	}
	return c.replan(a, targets)
}

func (c *Controller) beginHop(a *Agent) {
	next, err := a.Goals.PopNext()
	if err != nil {
		return
	}
	g := c.Finder.Grid.Terrain
	hf, _ := g.HeightAt(a.Cell)
	ht, _ := g.HeightAt(next)
	a.Motion.BeginHop(a.Cell, next, HopTicks(hf, ht, a.Speed))
	a.State = StateHopping
}

// replan selects a goal and loads a path to it. Candidates are tried best
// first until one is reachable.
func (c *Controller) replan(a *Agent, targets Targets) Outcome {
	a.Goals.Clear()
	live := targets.LiveTargets()
	if len(live) == 0 {
		a.State = StateIdle
		return OutcomeIdle
	}
	ver := c.Finder.Version()
	if a.blocked && a.blockedVer == ver && a.blockedCount == len(live) {
		a.State = StateIdle
		return OutcomeUnreachable
	}

	h, _ := c.Finder.Grid.Terrain.HeightAt(a.Cell)
	for _, t := range Rank(c.Scorer, a.Cell, h, live) {
		r, err := c.Finder.Find(a.Cell, t.Cell)
		if err != nil {
			c.Log.Warn("path query rejected", "cell", a.Cell, "target", t.ID, "err", err)
			continue
		}
		if !r.Found() {
			continue
		}
		a.blocked = false
		a.goal = t.Cell
		a.Goals.EnqueuePath(a.Cell, r.Path)
		a.State = StatePathing
		c.Log.Debug("new path", "cell", a.Cell, "target", t.ID, "goal", t.Cell, "cost", r.Cost, "hops", a.Goals.Len())
		return OutcomePathing
	}

	a.blocked, a.blockedVer, a.blockedCount = true, ver, len(live)
	a.State = StateIdle
	c.Log.Debug("no reachable target", "cell", a.Cell, "targets", len(live))
	return OutcomeUnreachable
}
