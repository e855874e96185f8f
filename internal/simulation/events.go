package simulation

import (
	"reroute-service/internal/domain"
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventStarted       EventKind = "started"
	EventPosition      EventKind = "position"
	EventBlocked       EventKind = "blockage_detected"
	EventRerouted      EventKind = "reroute_succeeded"
	EventFellBack      EventKind = "reroute_fell_back"
	EventRerouteFailed EventKind = "reroute_failed"
	EventCompleted     EventKind = "completed"
	EventStopped       EventKind = "stopped"
)

// Event is emitted by a controller for display and auditing.
// Path is set for started, rerouted and fell-back events; Reason for failures.
type Event struct {
	Kind      EventKind
	AgentID   string
	SessionID uuid.UUID
	Status    Status
	Index     int
	Position  domain.Coordinate
	ZoneID    string
	Path      domain.Path
	Reason    string
	At        time.Time
}

// EventSink receives controller events. Emit is called while the controller
// holds its lock, so implementations must not block or call back into the
// controller.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to an EventSink.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Emit(e Event) { f(e) }

// MultiSink fans an event out to every sink in order.
type MultiSink []EventSink

func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

type nopSink struct{}

func (nopSink) Emit(Event) {}
