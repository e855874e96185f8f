package dto

import "reroute-service/internal/simulation"

type SessionResponse struct {
	SessionID    string         `json:"session_id"`
	AgentID      string         `json:"agent_id"`
	Status       string         `json:"status"`
	Index        int            `json:"index"`
	Position     []float64      `json:"position,omitempty"`
	Destination  []float64      `json:"destination"`
	Path         [][]float64    `json:"path"`
	OriginalPath [][]float64    `json:"original_path"`
	Zones        []ZoneResponse `json:"zones"`
	BlockedZone  string         `json:"blocked_zone,omitempty"`
	Reroutes     int            `json:"reroutes"`
	Fallbacks    int            `json:"fallbacks"`
}

type StartSimulationResponse struct {
	Session  SessionResponse    `json:"session"`
	Original FeatureCollection  `json:"original"`
	Avoiding *FeatureCollection `json:"avoiding,omitempty"`
}

func NewSessionResponse(s simulation.Session) SessionResponse {
	res := SessionResponse{
		SessionID:    s.ID.String(),
		AgentID:      s.AgentID,
		Status:       s.Status.String(),
		Index:        s.Index,
		Destination:  s.Destination.CoordsToList(),
		Path:         s.Path.ToLists(),
		OriginalPath: s.Original.ToLists(),
		Zones:        make([]ZoneResponse, 0, len(s.Zones)),
		BlockedZone:  s.BlockedZone,
		Reroutes:     s.Reroutes,
		Fallbacks:    s.Fallbacks,
	}
	if c, ok := s.Current(); ok {
		res.Position = c.CoordsToList()
	}
	for _, z := range s.Zones {
		res.Zones = append(res.Zones, NewZoneResponse(z))
	}
	return res
}
