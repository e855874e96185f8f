package handlers

import (
	"net/http"
	"reroute-service/internal/api/dto"
	"reroute-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouteHandler struct {
	Service *services.RouteService
	Logger  *zap.Logger
}

// Route handles POST /api/route: a single route between two points avoiding
// the given zones, rendered as GeoJSON.
func (h *RouteHandler) Route(c *gin.Context) {
	var body dto.RouteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}

	req, err := toServiceRequest(body)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	route, err := h.Service.GetRoute(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRouteCollection(route))
}
