package handlers

import (
	"io"
	"net/http"
	"reroute-service/internal/adapters/events"
	"reroute-service/internal/api/dto"
	"reroute-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SimulationHandler struct {
	Service *services.SimulationService
	Hub     *events.Hub
	Logger  *zap.Logger
}

// Start handles POST /api/simulations/:agent.
func (h *SimulationHandler) Start(c *gin.Context) {
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

	res, err := h.Service.Start(c.Request.Context(), c.Param("agent"), req)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}

	out := dto.StartSimulationResponse{
		Session:  dto.NewSessionResponse(res.Session),
		Original: dto.NewRouteCollection(res.Original),
	}
	if res.Avoiding != nil {
		fc := dto.NewRouteCollection(*res.Avoiding)
		out.Avoiding = &fc
	}
	c.JSON(http.StatusCreated, out)
}

// Get handles GET /api/simulations/:agent.
func (h *SimulationHandler) Get(c *gin.Context) {
	s, err := h.Service.Snapshot(c.Param("agent"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(s))
}

// Stop handles DELETE /api/simulations/:agent.
func (h *SimulationHandler) Stop(c *gin.Context) {
	s, err := h.Service.Stop(c.Param("agent"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(s))
}

// Events handles GET /api/simulations/:agent/events as a Server-Sent Events
// stream. Each event is named by its kind and carries an events.Message.
func (h *SimulationHandler) Events(c *gin.Context) {
	if h.Hub == nil {
		writeError(c, http.StatusServiceUnavailable, "event stream is not available")
		return
	}

	agentID := c.Param("agent")
	sub := h.Hub.Subscribe(agentID)
	defer sub.Cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	ctx := c.Request.Context()
	h.Logger.Debug("event stream opened", zap.String("agent_id", agentID))

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case m, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent(m.Kind, m)
			return true
		}
	})

	h.Logger.Debug("event stream closed", zap.String("agent_id", agentID))
}
