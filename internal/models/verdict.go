package models

import "fmt"

// State is the health classification reported to the monitoring supervisor.
type State int

const (
	StateOK State = iota
	StateWarning
	StateCritical
	StateUnknown
)

// String returns the conventional plugin label for the state.
func (s State) String() string {
	switch s {
	case StateOK:
		return "OK"
	case StateWarning:
		return "WARNING"
	case StateCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode maps the state to the plugin exit status (0/1/2/3).
func (s State) ExitCode() int {
	switch s {
	case StateOK, StateWarning, StateCritical:
		return int(s)
	default:
		return int(StateUnknown)
	}
}

// Verdict is the single result of one evaluation run.
// AgeHours is only meaningful when HasAge is set.
type Verdict struct {
	State    State  `json:"state"`
	AgeHours int    `json:"age_hours"`
	HasAge   bool   `json:"has_age"`
	Message  string `json:"message"`
}

// NewVerdict builds a verdict that carries no age.
func NewVerdict(state State, format string, args ...any) Verdict {
	return Verdict{
		State:   state,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewAgedVerdict builds a verdict for a selected candidate.
func NewAgedVerdict(state State, ageHours int, format string, args ...any) Verdict {
	return Verdict{
		State:    state,
		AgeHours: ageHours,
		HasAge:   true,
		Message:  fmt.Sprintf(format, args...),
	}
}
