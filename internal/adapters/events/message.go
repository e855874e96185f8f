package events

import (
	"reroute-service/internal/simulation"
	"time"
)

// Message is the wire form of a simulation event, shared by the SSE stream
// and the Kafka topic. Coordinates are [lon, lat].
type Message struct {
	Kind      string      `json:"kind"`
	AgentID   string      `json:"agent_id"`
	SessionID string      `json:"session_id"`
	Status    string      `json:"status"`
	Index     int         `json:"index"`
	Position  []float64   `json:"position,omitempty"`
	ZoneID    string      `json:"zone_id,omitempty"`
	Path      [][]float64 `json:"path,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	At        time.Time   `json:"at"`
}

func NewMessage(e simulation.Event) Message {
	m := Message{
		Kind:      string(e.Kind),
		AgentID:   e.AgentID,
		SessionID: e.SessionID.String(),
		Status:    e.Status.String(),
		Index:     e.Index,
		ZoneID:    e.ZoneID,
		Reason:    e.Reason,
		At:        e.At.UTC(),
	}

	switch e.Kind {
	case simulation.EventPosition, simulation.EventBlocked,
		simulation.EventRerouted, simulation.EventFellBack, simulation.EventRerouteFailed:
		m.Position = e.Position.CoordsToList()
	}
	if !e.Path.IsEmpty() {
		m.Path = e.Path.ToLists()
	}
	return m
}
