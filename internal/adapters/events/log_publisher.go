package events

import (
	"reroute-service/internal/simulation"

	"go.uber.org/zap"
)

// LogPublisher writes every simulation event to a zap logger. Position
// events are logged at Debug to keep steady-state output quiet.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(e simulation.Event) {
	fields := []zap.Field{
		zap.String("kind", string(e.Kind)),
		zap.String("agent_id", e.AgentID),
		zap.String("session_id", e.SessionID.String()),
		zap.String("status", e.Status.String()),
		zap.Int("index", e.Index),
	}

	switch e.Kind {
	case simulation.EventPosition:
		p.logger.Debug("simulation event", append(fields,
			zap.Float64("lat", e.Position.Lat),
			zap.Float64("lon", e.Position.Lon),
		)...)
	case simulation.EventBlocked:
		p.logger.Info("simulation event", append(fields, zap.String("zone_id", e.ZoneID))...)
	case simulation.EventRerouteFailed, simulation.EventFellBack:
		p.logger.Warn("simulation event", append(fields, zap.String("reason", e.Reason))...)
	default:
		if !e.Path.IsEmpty() {
			fields = append(fields, zap.Int("points", e.Path.Len()))
		}
		p.logger.Info("simulation event", fields...)
	}
}
