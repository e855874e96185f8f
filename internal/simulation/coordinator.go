package simulation

import (
	"context"
	"errors"
	"fmt"
	"reroute-service/internal/domain"
	"reroute-service/internal/platform/obs"
	"reroute-service/internal/ports"

	"go.uber.org/zap"
)

type Outcome int

const (
	OutcomeRerouted Outcome = iota
	OutcomeFallback
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRerouted:
		return "rerouted"
	case OutcomeFallback:
		return "fallback"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type RerouteRequest struct {
	Token       uint64
	Current     domain.Coordinate
	Destination domain.Coordinate
	Zones       []domain.ExclusionZone
	Original    domain.Path
}

type RerouteResult struct {
	Token   uint64
	Outcome Outcome
	Path    domain.Path
	Reason  string
	Err     error
}

// Coordinator resolves a blockage by asking the routing service for a new
// path that avoids every session zone, falling back to the remainder of the
// original path when the routing service cannot help.
type Coordinator struct {
	provider ports.RouteProvider
	logger   *zap.Logger
}

func NewCoordinator(provider ports.RouteProvider, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{provider: provider, logger: logger}
}

// Reroute never fails outright unless the fallback is infeasible: a failed
// or empty routing response degrades to the original path from the point
// nearest the blockage. A cancelled context yields OutcomeCancelled.
func (c *Coordinator) Reroute(ctx context.Context, req RerouteRequest) RerouteResult {
	var err error
	defer obs.Time(ctx, "simulation.Reroute")(&err)

	route, err := c.provider.GetRoute(ctx, ports.RouteRequest{
		Start: req.Current,
		End:   req.Destination,
		Avoid: req.Zones,
	})
	if err == nil && route.Path.IsEmpty() {
		err = ports.ErrNoRoute
	}
	if err == nil {
		return RerouteResult{Token: req.Token, Outcome: OutcomeRerouted, Path: route.Path}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return RerouteResult{Token: req.Token, Outcome: OutcomeCancelled, Err: ctxErr}
	}

	c.logger.Warn("reroute request failed, trying original path",
		zap.Uint64("token", req.Token),
		zap.Error(err),
	)

	fallback, ok := FallbackPath(req.Original, req.Current)
	if !ok {
		return RerouteResult{
			Token:   req.Token,
			Outcome: OutcomeFailed,
			Reason:  fmt.Sprintf("reroute failed and original path has no remaining segment: %v", err),
			Err:     errors.Join(err, errFallbackInfeasible),
		}
	}

	return RerouteResult{
		Token:   req.Token,
		Outcome: OutcomeFallback,
		Path:    fallback,
		Reason:  err.Error(),
		Err:     err,
	}
}

var errFallbackInfeasible = errors.New("fallback path has fewer than 2 points")

// FallbackPath slices original from the index nearest to current through the
// end. It reports false when fewer than 2 points would remain.
func FallbackPath(original domain.Path, current domain.Coordinate) (domain.Path, bool) {
	idx := domain.NearestIndex(original, current)
	if idx < 0 {
		return domain.Path{}, false
	}
	tail := original.From(idx)
	if tail.Len() < 2 {
		return domain.Path{}, false
	}
	return tail, true
}
