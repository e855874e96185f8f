package services

import (
	"context"
	"errors"
	"fmt"
	"reroute-service/internal/domain"
	"reroute-service/internal/ports"
	"reroute-service/internal/simulation"
	"strings"

	"go.uber.org/zap"
)

// SimulationStart is the outcome of starting a simulation. Avoiding is the
// zone-avoiding route shown for comparison; it is nil when no zones were
// given or the routing service could not produce one.
type SimulationStart struct {
	Session  simulation.Session
	Original domain.Route
	Avoiding *domain.Route
}

// SimulationService starts and stops per-agent simulations.
type SimulationService struct {
	Routes   *RouteService
	Registry *simulation.Registry
	Logger   *zap.Logger
}

func NewSimulationService(routes *RouteService, registry *simulation.Registry, logger *zap.Logger) *SimulationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulationService{Routes: routes, Registry: registry, Logger: logger}
}

// Start fetches the unobstructed route from start to end and drives the
// agent along it, so that blockages are discovered while moving. Any
// simulation already running for the agent is superseded.
func (s *SimulationService) Start(ctx context.Context, agentID string, req RouteRequest) (SimulationStart, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return SimulationStart{}, invalidf("agent id is required")
	}
	if err := validateEndpoints(req); err != nil {
		return SimulationStart{}, err
	}

	zones, err := s.Routes.ResolveZones(ctx, req.Zones, req.ZoneIDs)
	if err != nil {
		return SimulationStart{}, err
	}

	original, err := s.Routes.Provider.GetRoute(ctx, ports.RouteRequest{Start: req.Start, End: req.End})
	if err != nil {
		return SimulationStart{}, fmt.Errorf("start simulation: initial route: %w", err)
	}
	if original.Path.IsEmpty() {
		return SimulationStart{}, fmt.Errorf("start simulation: initial route: %w", ports.ErrNoRoute)
	}

	var avoiding *domain.Route
	if len(domain.ValidZones(zones)) > 0 {
		r, err := s.Routes.Provider.GetRoute(ctx, ports.RouteRequest{Start: req.Start, End: req.End, Avoid: zones})
		switch {
		case err != nil:
			s.Logger.Warn("avoiding route unavailable", zap.String("agent_id", agentID), zap.Error(err))
		case r.Path.IsEmpty():
			s.Logger.Warn("avoiding route unavailable", zap.String("agent_id", agentID), zap.Error(ports.ErrNoRoute))
		default:
			avoiding = &r
		}
	}

	session, err := s.Registry.Controller(agentID).Start(original.Path, zones, req.End)
	if err != nil {
		return SimulationStart{}, fmt.Errorf("start simulation: %w", err)
	}

	return SimulationStart{Session: session, Original: original, Avoiding: avoiding}, nil
}

// ErrUnknownAgent is returned for agents that never started a simulation.
var ErrUnknownAgent = errors.New("no simulation for agent")

func (s *SimulationService) Snapshot(agentID string) (simulation.Session, error) {
	c, ok := s.Registry.Lookup(agentID)
	if !ok {
		return simulation.Session{}, ErrUnknownAgent
	}
	session, ok := c.Snapshot()
	if !ok {
		return simulation.Session{}, ErrUnknownAgent
	}
	return session, nil
}

// Stop halts the agent's simulation. Stopping an idle or finished
// simulation is a no-op.
func (s *SimulationService) Stop(agentID string) (simulation.Session, error) {
	c, ok := s.Registry.Lookup(agentID)
	if !ok {
		return simulation.Session{}, ErrUnknownAgent
	}
	c.Stop()
	return s.Snapshot(agentID)
}
