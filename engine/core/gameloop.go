package core

import "time"

// LoopState represents the overall simulation state
type LoopState uint8

const (
	StatePaused LoopState = iota
	StatePlaying
	StateGameOver
)

// maxFrame caps how much wall time one Advance call may simulate
const maxFrame = 250 * time.Millisecond

// GameLoop runs the world at a fixed tick rate regardless of frame rate,
// so the simulation is deterministic for a given sequence of ticks.
type GameLoop struct {
	World       *World
	Bus         *EventBus
	State       LoopState
	TickRate    float64 // fixed ticks per second
	accumulator time.Duration
}

// NewGameLoop creates a paused loop with a fresh world and event bus
func NewGameLoop(tickRate float64) *GameLoop {
	return &GameLoop{
		World:    NewWorld(),
		Bus:      NewEventBus(),
		TickRate: tickRate,
	}
}

// TickDuration returns the simulated time of one tick
func (gl *GameLoop) TickDuration() time.Duration {
	return time.Duration(float64(time.Second) / gl.TickRate)
}

// Step runs exactly n ticks, dispatching events after each one
func (gl *GameLoop) Step(n int) {
	dt := 1.0 / gl.TickRate
	for i := 0; i < n && gl.State == StatePlaying; i++ {
		gl.World.Tick(dt)
		gl.Bus.Dispatch()
	}
}

// Advance feeds elapsed wall time into the loop and runs as many whole
// ticks as fit. It returns the interpolation alpha in [0,1) for rendering.
func (gl *GameLoop) Advance(elapsed time.Duration) float64 {
	// Cap frame time to avoid spiral of death
	if elapsed > maxFrame {
		elapsed = maxFrame
	}
	tick := gl.TickDuration()
	gl.accumulator += elapsed
	for gl.accumulator >= tick {
		gl.Step(1)
		gl.accumulator -= tick
	}
	return float64(gl.accumulator) / float64(tick)
}

// Play starts or resumes the simulation
func (gl *GameLoop) Play() {
	if gl.State != StateGameOver {
		gl.State = StatePlaying
	}
}

// Pause pauses the simulation
func (gl *GameLoop) Pause() {
	if gl.State == StatePlaying {
		gl.State = StatePaused
	}
}

// End stops the simulation for good
func (gl *GameLoop) End() {
	gl.State = StateGameOver
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.World.TickCount
}
