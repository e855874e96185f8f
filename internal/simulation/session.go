package simulation

import (
	"fmt"
	"reroute-service/internal/domain"

	"github.com/google/uuid"
)

// Session is the mutable state of one traversal. Token identifies the
// session within its controller; a result carrying a different token
// belongs to a superseded session and is discarded.
type Session struct {
	ID          uuid.UUID
	Token       uint64
	AgentID     string
	Status      Status
	Path        domain.Path
	Original    domain.Path
	Zones       []domain.ExclusionZone
	Destination domain.Coordinate
	Index       int

	// InBlockage is set from the tick that triggers a reroute until the
	// agent reaches a point outside every zone. While set, blocked points do
	// not trigger another reroute.
	InBlockage  bool
	BlockedAt   domain.Coordinate
	BlockedZone string

	Reroutes  int
	Fallbacks int
}

// NewSession creates a running session on path. The original path is
// retained for fallback for the whole life of the session.
func NewSession(token uint64, agentID string, path domain.Path, zones []domain.ExclusionZone, destination domain.Coordinate) Session {
	zs := make([]domain.ExclusionZone, len(zones))
	copy(zs, zones)

	return Session{
		ID:          uuid.New(),
		Token:       token,
		AgentID:     agentID,
		Status:      StatusRunning,
		Path:        path,
		Original:    path,
		Zones:       zs,
		Destination: destination,
	}
}

// Current returns the coordinate at the step index, if any remain.
func (s Session) Current() (domain.Coordinate, bool) {
	if s.Index < 0 || s.Index >= s.Path.Len() {
		return domain.Coordinate{}, false
	}
	return s.Path.At(s.Index), true
}

// RerouteRequest captures what the coordinator needs to resolve the
// blockage that put this session into rerouting.
func (s Session) RerouteRequest() RerouteRequest {
	return RerouteRequest{
		Token:       s.Token,
		Current:     s.BlockedAt,
		Destination: s.Destination,
		Zones:       s.Zones,
		Original:    s.Original,
	}
}

func (s *Session) transition(to Status) error {
	if !s.Status.CanTransitionTo(to) {
		return fmt.Errorf("session %s: invalid transition %s -> %s", s.ID, s.Status, to)
	}
	s.Status = to
	return nil
}

func (s Session) event(kind EventKind) Event {
	return Event{
		Kind:      kind,
		AgentID:   s.AgentID,
		SessionID: s.ID,
		Status:    s.Status,
		Index:     s.Index,
	}
}
