// Package input turns raw ebiten mouse and keyboard state into viewer
// actions.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a viewer command bound to a key
type Action uint8

const (
	ActPause Action = iota
	ActToggleGrid
	ActTogglePaths
	ActSelect1
	ActSelect2
	ActSelect3
	ActSelect4
	ActPanUp
	ActPanDown
	ActPanLeft
	ActPanRight
	ActCenter
)

// DefaultBindings is the stock key map
var DefaultBindings = map[Action][]ebiten.Key{
	ActPause:       {ebiten.KeySpace},
	ActToggleGrid:  {ebiten.KeyG},
	ActTogglePaths: {ebiten.KeyP},
	ActSelect1:     {ebiten.Key1},
	ActSelect2:     {ebiten.Key2},
	ActSelect3:     {ebiten.Key3},
	ActSelect4:     {ebiten.Key4},
	ActPanUp:       {ebiten.KeyW, ebiten.KeyUp},
	ActPanDown:     {ebiten.KeyS, ebiten.KeyDown},
	ActPanLeft:     {ebiten.KeyA, ebiten.KeyLeft},
	ActPanRight:    {ebiten.KeyD, ebiten.KeyRight},
	ActCenter:      {ebiten.KeyH},
}

// State tracks the pointer and key bindings per frame. A left press that
// moves past DragThreshold becomes a drag instead of a click.
type State struct {
	MouseX, MouseY   int
	MouseDX, MouseDY int // delta since last frame
	ScrollY          float64

	LeftClick  bool // released this frame without dragging
	RightClick bool // pressed this frame
	Dragging   bool

	DragThreshold int
	Bindings      map[Action][]ebiten.Key

	dragStartX, dragStartY int
}

func NewState() *State {
	return &State{
		DragThreshold: 5,
		Bindings:      DefaultBindings,
	}
}

// Update should be called once per frame
func (s *State) Update() {
	prevX, prevY := s.MouseX, s.MouseY
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.MouseDX = s.MouseX - prevX
	s.MouseDY = s.MouseY - prevY

	_, s.ScrollY = ebiten.Wheel()
	s.RightClick = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	leftDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.dragStartX, s.dragStartY = s.MouseX, s.MouseY
		s.Dragging = false
	}
	if leftDown && !s.Dragging {
		dx := s.MouseX - s.dragStartX
		dy := s.MouseY - s.dragStartY
		s.Dragging = dx*dx+dy*dy > s.DragThreshold*s.DragThreshold
	}
	s.LeftClick = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && !s.Dragging
	if !leftDown {
		s.Dragging = false
	}
}

// Just reports whether any key bound to a was pressed this frame
func (s *State) Just(a Action) bool {
	for _, k := range s.Bindings[a] {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// Held reports whether any key bound to a is down
func (s *State) Held(a Action) bool {
	for _, k := range s.Bindings[a] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}
