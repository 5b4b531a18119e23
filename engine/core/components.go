package core

import "github.com/1siamBot/td-engine/engine/nav"

// Navigator attaches navigation state to an entity
type Navigator struct {
	*nav.Agent
}

func (n *Navigator) Type() ComponentType { return CompNavigator }

// Unit describes an enemy agent's kind and what it does on arrival
type Unit struct {
	Kind   string
	Damage int // applied to the target structure on arrival
}

func (u *Unit) Type() ComponentType { return CompUnit }

// Health represents hit points
type Health struct {
	Current int
	Max     int
}

func (h *Health) Type() ComponentType { return CompHealth }

func (h *Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}
