package simulation

import "fmt"

// Status represents the lifecycle state of a simulation session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusBlocked   Status = "blocked"
	StatusRerouting Status = "rerouting"
	StatusFallback  Status = "fallback"
	StatusCompleted Status = "completed"
)

// validTransitions defines the session state machine. Every state may return
// to idle on an explicit stop.
var validTransitions = map[Status][]Status{
	StatusIdle:      {StatusRunning},
	StatusRunning:   {StatusCompleted, StatusBlocked, StatusIdle},
	StatusBlocked:   {StatusRerouting, StatusIdle},
	StatusRerouting: {StatusRunning, StatusFallback, StatusIdle},
	StatusFallback:  {StatusRunning, StatusIdle},
	StatusCompleted: {StatusIdle},
}

// IsValid returns true if the status is a recognized session status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsActive reports whether the session still owns a timer or an in-flight reroute.
func (s Status) IsActive() bool {
	switch s {
	case StatusRunning, StatusBlocked, StatusRerouting, StatusFallback:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid simulation status: %s", s)
	}
	return status, nil
}
