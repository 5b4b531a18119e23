// Package towers tracks placed structures: which cells they occupy, which
// are still alive, and which agents may target.
package towers

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/nav"
)

var (
	ErrNoFit       = errors.New("towers: footprint does not fit")
	ErrUnknownKind = errors.New("towers: unknown kind")
	ErrNotFound    = errors.New("towers: no such tower")
)

// Kind describes a placeable structure
type Kind struct {
	Name   string
	Size   int // square footprint side, anchored at the top-left cell
	Health int
	Cost   int
}

var (
	Wall         = Kind{Name: "wall", Size: 1, Health: 200, Cost: 20}
	Sniper       = Kind{Name: "sniper", Size: 1, Health: 80, Cost: 120}
	Producer     = Kind{Name: "producer", Size: 1, Health: 100, Cost: 240}
	Headquarters = Kind{Name: "headquarters", Size: 2, Health: 500, Cost: 800}
)

// Kinds lists the built-in structures by name
var Kinds = map[string]Kind{
	Wall.Name:         Wall,
	Sniper.Name:       Sniper,
	Producer.Name:     Producer,
	Headquarters.Name: Headquarters,
}

// KindByName looks up a built-in kind, case-insensitively
func KindByName(name string) (Kind, error) {
	k, ok := Kinds[strings.ToLower(name)]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}

// Tower is a placed structure
type Tower struct {
	ID     nav.TargetID
	Kind   Kind
	Anchor maplib.Cell
	Health int
}

// Footprint returns every cell the tower covers
func (t *Tower) Footprint() []maplib.Cell {
	return footprint(t.Anchor, t.Kind.Size)
}

func footprint(anchor maplib.Cell, size int) []maplib.Cell {
	out := make([]maplib.Cell, 0, size*size)
	for dr := 0; dr < size; dr++ {
		for dc := 0; dc < size; dc++ {
			out = append(out, anchor.Add(dr, dc))
		}
	}
	return out
}

// Registry owns the occupancy grid and the set of live towers. Agents
// target a tower's anchor cell; the rest of its footprint is impassable.
type Registry struct {
	grid    *maplib.HeightGrid
	occ     []nav.TargetID // per cell, 0 = free
	towers  map[nav.TargetID]*Tower
	nextID  nav.TargetID
	version uint64

	Bus  *core.EventBus
	Log  *slog.Logger
	Tick func() uint64 // stamps emitted events; may be nil
}

// NewRegistry creates an empty registry sized to the terrain
func NewRegistry(grid *maplib.HeightGrid, bus *core.EventBus, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		grid:   grid,
		occ:    make([]nav.TargetID, grid.Len()),
		towers: make(map[nav.TargetID]*Tower),
		Bus:    bus,
		Log:    log,
	}
}

// CanFit reports whether a size×size footprint anchored at c lies in
// bounds on free cells.
func (r *Registry) CanFit(c maplib.Cell, size int) bool {
	if size < 1 {
		return false
	}
	for _, fc := range footprint(c, size) {
		if !r.grid.InBounds(fc) || r.occ[r.grid.Index(fc)] != 0 {
			return false
		}
	}
	return true
}

// Place builds a tower anchored at c
func (r *Registry) Place(k Kind, c maplib.Cell) (*Tower, error) {
	if !r.CanFit(c, k.Size) {
		return nil, fmt.Errorf("%w: %s at %v", ErrNoFit, k.Name, c)
	}
	r.nextID++
	t := &Tower{ID: r.nextID, Kind: k, Anchor: c, Health: k.Health}
	for _, fc := range t.Footprint() {
		r.occ[r.grid.Index(fc)] = t.ID
	}
	r.towers[t.ID] = t
	r.version++
	r.Log.Info("tower placed", "id", t.ID, "kind", k.Name, "cell", c)
	r.emit(core.EvtTowerPlaced, t)
	return t, nil
}

// Damage reduces a tower's health, destroying it at zero. It returns true
// if the tower was destroyed.
func (r *Registry) Damage(id nav.TargetID, amount int) (bool, error) {
	t, ok := r.towers[id]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	t.Health -= amount
	if t.Health > 0 {
		r.emit(core.EvtTowerDamaged, t)
		return false, nil
	}
	t.Health = 0
	return true, r.Destroy(id)
}

// Destroy removes a tower and frees its footprint
func (r *Registry) Destroy(id nav.TargetID) error {
	t, ok := r.towers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	for _, fc := range t.Footprint() {
		r.occ[r.grid.Index(fc)] = 0
	}
	delete(r.towers, id)
	r.version++
	r.Log.Info("tower destroyed", "id", id, "kind", t.Kind.Name, "cell", t.Anchor)
	r.emit(core.EvtTowerDestroyed, t)
	return nil
}

// Get returns a live tower by ID
func (r *Registry) Get(id nav.TargetID) (*Tower, bool) {
	t, ok := r.towers[id]
	return t, ok
}

// At returns the live tower covering c
func (r *Registry) At(c maplib.Cell) (*Tower, bool) {
	if !r.grid.InBounds(c) {
		return nil, false
	}
	id := r.occ[r.grid.Index(c)]
	if id == 0 {
		return nil, false
	}
	return r.towers[id], true
}

// Towers returns live towers in ascending ID order
func (r *Registry) Towers() []*Tower {
	out := make([]*Tower, 0, len(r.towers))
	for _, t := range r.towers {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Tower) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Count returns the number of live towers of a kind
func (r *Registry) Count(k Kind) int {
	n := 0
	for _, t := range r.towers {
		if t.Kind.Name == k.Name {
			n++
		}
	}
	return n
}

// Occupied implements pathfind.Occupancy
func (r *Registry) Occupied(c maplib.Cell) bool {
	return r.grid.InBounds(c) && r.occ[r.grid.Index(c)] != 0
}

// Version implements pathfind.Occupancy
func (r *Registry) Version() uint64 { return r.version }

// LiveTargets implements nav.Targets
func (r *Registry) LiveTargets() []nav.Target {
	ts := r.Towers()
	out := make([]nav.Target, len(ts))
	for i, t := range ts {
		h, _ := r.grid.HeightAt(t.Anchor)
		out[i] = nav.Target{ID: t.ID, Cell: t.Anchor, Height: h, Kind: t.Kind.Name}
	}
	return out
}

// IsLiveTarget implements nav.Targets
func (r *Registry) IsLiveTarget(c maplib.Cell) bool {
	t, ok := r.At(c)
	return ok && t.Anchor == c
}

func (r *Registry) emit(et core.EventType, t *Tower) {
	var tick uint64
	if r.Tick != nil {
		tick = r.Tick()
	}
	r.Bus.Emit(core.Event{Type: et, Tick: tick, Payload: *t})
}
