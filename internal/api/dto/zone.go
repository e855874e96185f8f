package dto

import "reroute-service/internal/domain"

type ZoneResponse struct {
	ZoneID string      `json:"zone_id"`
	Name   string      `json:"name,omitempty"`
	Ring   [][]float64 `json:"ring"`
}

type ListZonesResponse struct {
	Zones []ZoneResponse `json:"zones"`
}

func NewZoneResponse(z domain.ExclusionZone) ZoneResponse {
	return ZoneResponse{ZoneID: z.ID, Name: z.Name, Ring: z.ClosedRing()}
}
