package routing

import (
	"context"
	"reroute-service/internal/domain"
	"reroute-service/internal/ports"
	"sync"
)

// MockResponse is one scripted reply. When Gate is non-nil the call blocks
// until the gate is closed or, unless IgnoreContext is set, the context is
// cancelled.
type MockResponse struct {
	Route         domain.Route
	Err           error
	Gate          <-chan struct{}
	IgnoreContext bool
}

// MockRouteProvider replays scripted responses in order and records every
// request. Once the script is exhausted it returns ports.ErrNoRoute.
type MockRouteProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	requests  []ports.RouteRequest
}

func NewMockRouteProvider(responses ...MockResponse) *MockRouteProvider {
	return &MockRouteProvider{responses: responses}
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, req ports.RouteRequest) (domain.Route, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	if len(p.responses) == 0 {
		p.mu.Unlock()
		return domain.Route{}, ports.ErrNoRoute
	}
	r := p.responses[0]
	p.responses = p.responses[1:]
	p.mu.Unlock()

	if r.Gate != nil && r.IgnoreContext {
		<-r.Gate
	} else if r.Gate != nil {
		select {
		case <-r.Gate:
		case <-ctx.Done():
			return domain.Route{}, ctx.Err()
		}
	}

	return r.Route, r.Err
}

// Requests returns a copy of the requests received so far.
func (p *MockRouteProvider) Requests() []ports.RouteRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]ports.RouteRequest, len(p.requests))
	copy(out, p.requests)
	return out
}
