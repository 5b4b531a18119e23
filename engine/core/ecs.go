package core

import "slices"

// EntityID is a unique identifier for simulation entities. IDs are issued
// per world in increasing order, so iteration by ID is spawn order.
type EntityID uint64

// Component is a marker interface for all components
type Component interface {
	Type() ComponentType
}

// ComponentType identifies the type of component
type ComponentType uint32

const (
	CompNavigator ComponentType = iota
	CompUnit
	CompHealth
	CompMax
)

// System processes entities each tick
type System interface {
	Update(w *World, dt float64)
	Priority() int
}

// World holds all entities and their components
type World struct {
	entities  map[EntityID]map[ComponentType]Component
	systems   []System
	toRemove  []EntityID
	nextID    EntityID
	TickCount uint64
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		entities: make(map[EntityID]map[ComponentType]Component),
	}
}

// Spawn creates a new entity and returns its ID
func (w *World) Spawn() EntityID {
	w.nextID++
	w.entities[w.nextID] = make(map[ComponentType]Component)
	return w.nextID
}

// Attach adds a component to an entity
func (w *World) Attach(id EntityID, c Component) {
	if comps, ok := w.entities[id]; ok {
		comps[c.Type()] = c
	}
}

// Get returns a component for an entity, or nil
func (w *World) Get(id EntityID, ct ComponentType) Component {
	if comps, ok := w.entities[id]; ok {
		return comps[ct]
	}
	return nil
}

// Alive reports whether the entity exists and is not pending removal
func (w *World) Alive(id EntityID) bool {
	if _, ok := w.entities[id]; !ok {
		return false
	}
	return !slices.Contains(w.toRemove, id)
}

// Destroy marks an entity for removal at the end of the tick
func (w *World) Destroy(id EntityID) {
	if !slices.Contains(w.toRemove, id) {
		w.toRemove = append(w.toRemove, id)
	}
}

// Query returns, in ascending ID order, all entities that have ALL of the
// specified component types.
func (w *World) Query(types ...ComponentType) []EntityID {
	var result []EntityID
	for id, comps := range w.entities {
		match := true
		for _, t := range types {
			if _, ok := comps[t]; !ok {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

// AddSystem registers a system, keeping systems sorted by priority
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i].Priority() < w.systems[i-1].Priority() {
			w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
		}
	}
}

// Tick runs all systems once, then removes destroyed entities
func (w *World) Tick(dt float64) {
	for _, s := range w.systems {
		s.Update(w, dt)
	}
	for _, id := range w.toRemove {
		delete(w.entities, id)
	}
	w.toRemove = w.toRemove[:0]
	w.TickCount++
}

// EntityCount returns the number of entities
func (w *World) EntityCount() int {
	return len(w.entities)
}
