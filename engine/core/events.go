package core

// Event represents a simulation event
type Event struct {
	Type    EventType
	Tick    uint64
	Payload any
}

type EventType uint16

const (
	EvtAgentSpawned EventType = iota
	EvtAgentArrived
	EvtAgentRemoved
	EvtTowerPlaced
	EvtTowerDamaged
	EvtTowerDestroyed
	EvtPathUnreachable
)

var eventNames = [...]string{
	"agent_spawned", "agent_arrived", "agent_removed",
	"tower_placed", "tower_damaged", "tower_destroyed",
	"path_unreachable",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// EventBus queues events and dispatches them to listeners between ticks
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch. A nil bus drops the event.
func (eb *EventBus) Emit(e Event) {
	if eb == nil {
		return
	}
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int { return len(eb.queue) }

// Dispatch delivers all queued events in emission order. Events emitted by
// handlers are delivered in the same call.
func (eb *EventBus) Dispatch() {
	if eb == nil {
		return
	}
	for i := 0; i < len(eb.queue); i++ {
		e := eb.queue[i]
		for _, h := range eb.listeners[e.Type] {
			h(e)
		}
	}
	eb.queue = eb.queue[:0]
}
