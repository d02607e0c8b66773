package search

import "fmt"

// State is the view state the screen renders.
type State int

const (
	StateNoCity State = iota
	StateLoading
	StateNoData
	StateError
	StateResultsReady
	StateDetail
)

var stateNames = map[State]string{
	StateNoCity:       "noCity",
	StateLoading:      "loading",
	StateNoData:       "noData",
	StateError:        "error",
	StateResultsReady: "resultsReady",
	StateDetail:       "detail",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for st, name := range stateNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// EventKind identifies what an Event reports.
type EventKind string

const (
	EventStateChanged EventKind = "state_changed"
	EventFetchStarted EventKind = "fetch_started"
	EventApplied      EventKind = "applied"
	EventDiscarded    EventKind = "discarded"
)

// Event is delivered to an observer for every transition and fetch outcome.
type Event struct {
	Kind  EventKind
	State State
	Query string
	Seq   uint64
	Err   error
}

// Stats counts fetches over the life of a Session.
type Stats struct {
	Started   uint64 `json:"started"`
	Applied   uint64 `json:"applied"`
	Discarded uint64 `json:"discarded"`
}
