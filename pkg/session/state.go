package session

// State is a step of the session lifecycle
type State int

const (
	StateIdle State = iota
	StateDiscovering
	StatePlanning
	StateAwaitingSelection
	StateExecuting
	StateReporting
	StateDone
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateDiscovering:       "discovering",
	StatePlanning:          "planning",
	StateAwaitingSelection: "awaiting_selection",
	StateExecuting:         "executing",
	StateReporting:         "reporting",
	StateDone:              "done",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
