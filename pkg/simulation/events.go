package simulation

// TopicUpdates is the pubsub topic every controller event is published on.
const TopicUpdates = "simulation.updates"

// EventType classifies controller events.
type EventType int

const (
	EventTick EventType = iota
	EventInteraction
	EventSeed
	EventTrojanSpawn
	EventModeChange
	EventStart
	EventStop
	EventReset
	EventRebuild
)

func (t EventType) String() string {
	switch t {
	case EventTick:
		return "tick"
	case EventInteraction:
		return "interaction"
	case EventSeed:
		return "seed"
	case EventTrojanSpawn:
		return "trojan_spawn"
	case EventModeChange:
		return "mode_change"
	case EventStart:
		return "start"
	case EventStop:
		return "stop"
	case EventReset:
		return "reset"
	case EventRebuild:
		return "rebuild"
	default:
		return "unknown"
	}
}

// Event tells the presentation layer that controller state changed and a
// redraw may be due. NodeIDs lists the nodes touched, when known.
type Event struct {
	Type    EventType
	State   State
	Sample  Sample
	NodeIDs []int
}
