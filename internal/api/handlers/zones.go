package handlers

import (
	"net/http"
	"reroute-service/internal/api/dto"
	"reroute-service/internal/ports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZoneHandler exposes read-only saved zone retrieval.
type ZoneHandler struct {
	Repo   ports.ZoneRepository
	Logger *zap.Logger
}

func (h *ZoneHandler) List(c *gin.Context) {
	res := dto.ListZonesResponse{Zones: []dto.ZoneResponse{}}
	if h.Repo == nil {
		c.JSON(http.StatusOK, res)
		return
	}

	zones, err := h.Repo.ListZones(c.Request.Context())
	if err != nil {
		h.Logger.Error("list zones failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	for _, z := range zones {
		res.Zones = append(res.Zones, dto.NewZoneResponse(z))
	}
	c.JSON(http.StatusOK, res)
}
