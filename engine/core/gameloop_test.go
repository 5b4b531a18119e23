package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGameLoopAdvance(t *testing.T) {
	gl := NewGameLoop(20) // 50ms per tick
	gl.Play()

	assert.Equal(t, 0.0, gl.Advance(100*time.Millisecond))
	assert.Equal(t, uint64(2), gl.CurrentTick())

	assert.InDelta(t, 0.5, gl.Advance(75*time.Millisecond), 1e-9)
	assert.Equal(t, uint64(3), gl.CurrentTick())

	// The leftover half tick carries over
	gl.Advance(25 * time.Millisecond)
	assert.Equal(t, uint64(4), gl.CurrentTick())
}

func TestGameLoopCapsLongFrames(t *testing.T) {
	gl := NewGameLoop(20)
	gl.Play()
	gl.Advance(time.Second)
	assert.Equal(t, uint64(5), gl.CurrentTick())
}

func TestGameLoopPaused(t *testing.T) {
	gl := NewGameLoop(20)
	assert.Equal(t, StatePaused, gl.State)
	gl.Advance(200 * time.Millisecond)
	gl.Step(10)
	assert.Equal(t, uint64(0), gl.CurrentTick())

	gl.Play()
	gl.Step(3)
	assert.Equal(t, uint64(3), gl.CurrentTick())
	gl.Pause()
	gl.Step(3)
	assert.Equal(t, uint64(3), gl.CurrentTick())
}

func TestGameLoopEndIsFinal(t *testing.T) {
	gl := NewGameLoop(20)
	gl.Play()
	gl.End()
	gl.Play()
	assert.Equal(t, StateGameOver, gl.State)
	gl.Step(5)
	assert.Equal(t, uint64(0), gl.CurrentTick())
}

func TestGameLoopStepDispatchesEvents(t *testing.T) {
	gl := NewGameLoop(20)
	var ticks []uint64
	gl.Bus.On(EvtAgentSpawned, func(e Event) { ticks = append(ticks, e.Tick) })
	gl.World.AddSystem(emitSystem{gl.Bus})
	gl.Play()
	gl.Step(3)
	assert.Equal(t, []uint64{0, 1, 2}, ticks)
	assert.Equal(t, time.Duration(50*time.Millisecond), gl.TickDuration())
}

type emitSystem struct{ bus *EventBus }

func (s emitSystem) Update(w *World, dt float64) {
	s.bus.Emit(Event{Type: EvtAgentSpawned, Tick: w.TickCount})
}
func (s emitSystem) Priority() int { return 0 }
