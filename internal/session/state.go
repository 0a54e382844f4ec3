package session

import "fmt"

// State is the lifecycle position of a Session.
type State int

// Session states
const (
	Idle State = iota
	TopicLoaded
	CardShown
	AwaitingVerdict
	Completed
)

var stateNames = map[State]string{
	Idle:            "idle",
	TopicLoaded:     "topic_loaded",
	CardShown:       "card_shown",
	AwaitingVerdict: "awaiting_verdict",
	Completed:       "completed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the state name in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", text)
}
