package workflow

// State is a checkpoint of the profile update pipeline.
type State int

const (
	StateInit State = iota
	StateAuthenticating
	StateNavigating
	StateEditActivated
	StateTextEntered
	StateSaved
	StateClosed
)

var stateNames = [...]string{
	StateInit:           "init",
	StateAuthenticating: "authenticating",
	StateNavigating:     "navigating",
	StateEditActivated:  "edit_activated",
	StateTextEntered:    "text_entered",
	StateSaved:          "saved",
	StateClosed:         "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
