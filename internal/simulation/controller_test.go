package simulation

import (
	"errors"
	"reroute-service/internal/adapters/routing"
	"reroute-service/internal/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const waitTimeout = 2 * time.Second

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() { m.stopped.Store(true) }

type harness struct {
	t          *testing.T
	controller *Controller
	provider   *routing.MockRouteProvider
	events     chan Event
	tickers    chan *manualTicker
	current    *manualTicker
	logs       *observer.ObservedLogs
}

func newHarness(t *testing.T, responses ...routing.MockResponse) *harness {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	h := &harness{
		t:        t,
		provider: routing.NewMockRouteProvider(responses...),
		events:   make(chan Event, 256),
		tickers:  make(chan *manualTicker, 16),
		logs:     logs,
	}

	logger := zap.New(core)
	h.controller = NewController(ControllerConfig{
		AgentID:     "agent-1",
		Coordinator: NewCoordinator(h.provider, logger),
		Sink:        EventSinkFunc(func(e Event) { h.events <- e }),
		Logger:      logger,
		NewTicker: func(time.Duration) Ticker {
			mt := &manualTicker{ch: make(chan time.Time)}
			h.tickers <- mt
			return mt
		},
	})
	t.Cleanup(h.controller.Close)
	return h
}

// nextTicker waits for the controller to create a ticker and makes it current.
func (h *harness) nextTicker() *manualTicker {
	h.t.Helper()
	select {
	case mt := <-h.tickers:
		h.current = mt
		return mt
	case <-time.After(waitTimeout):
		h.t.Fatal("timed out waiting for ticker")
		return nil
	}
}

func (h *harness) tick() {
	h.t.Helper()
	select {
	case h.current.ch <- time.Now():
	case <-time.After(waitTimeout):
		h.t.Fatal("tick was not consumed")
	}
}

func (h *harness) next() Event {
	h.t.Helper()
	select {
	case e := <-h.events:
		return e
	case <-time.After(waitTimeout):
		h.t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func (h *harness) expect(kind EventKind) Event {
	h.t.Helper()
	e := h.next()
	require.Equal(h.t, kind, e.Kind, "event %+v", e)
	return e
}

// drain returns any events already emitted without waiting.
func (h *harness) drain() []Event {
	var out []Event
	for {
		select {
		case e := <-h.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func (h *harness) start(path domain.Path, zones ...domain.ExclusionZone) Session {
	h.t.Helper()
	s, err := h.controller.Start(path, zones, path.End())
	require.NoError(h.t, err)
	h.expect(EventStarted)
	h.nextTicker()
	return s
}

func TestControllerCompletesPathWithoutZones(t *testing.T) {
	h := newHarness(t)
	path := linePath(t, 10)
	h.start(path)
	mt := h.current

	for i := 0; i < 10; i++ {
		h.tick()
		e := h.expect(EventPosition)
		assert.Equal(t, i, e.Index)
		assert.Equal(t, path.At(i), e.Position)
	}
	h.expect(EventCompleted)

	s, ok := h.controller.Snapshot()
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, 10, s.Index)
	assert.Empty(t, h.provider.Requests())
	assert.True(t, mt.stopped.Load())
}

func TestControllerReroutesOnceOnBlockage(t *testing.T) {
	detour := pathOf(t,
		domain.Coordinate{Lat: 0, Lon: 2},
		domain.Coordinate{Lat: 1, Lon: 2},
		domain.Coordinate{Lat: 1, Lon: 4},
		domain.Coordinate{Lat: 0, Lon: 4},
	)
	h := newHarness(t, routing.MockResponse{Route: domain.Route{Path: detour}})
	path := linePath(t, 5)
	h.start(path, zoneAround("z", 2))
	first := h.current

	h.tick()
	assert.Equal(t, 0, h.expect(EventPosition).Index)
	h.tick()
	assert.Equal(t, 1, h.expect(EventPosition).Index)
	h.tick()
	assert.Equal(t, 2, h.expect(EventPosition).Index)
	blocked := h.expect(EventBlocked)
	assert.Equal(t, "z", blocked.ZoneID)

	rerouted := h.expect(EventRerouted)
	assert.Equal(t, detour, rerouted.Path)
	assert.True(t, first.stopped.Load())

	h.nextTicker()
	for i := 0; i < detour.Len(); i++ {
		h.tick()
		assert.Equal(t, i, h.expect(EventPosition).Index)
	}
	h.expect(EventCompleted)

	reqs := h.provider.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, path.At(2), reqs[0].Start)
	assert.Equal(t, path.End(), reqs[0].End)

	s, _ := h.controller.Snapshot()
	assert.Equal(t, 1, s.Reroutes)
	assert.Equal(t, path, s.Original)
}

func TestControllerFallsBackToOriginalPath(t *testing.T) {
	h := newHarness(t, routing.MockResponse{Err: errors.New("routing unavailable")})
	path := linePath(t, 5)
	h.start(path, zoneAround("z", 2))

	for i := 0; i < 3; i++ {
		h.tick()
		h.expect(EventPosition)
	}
	h.expect(EventBlocked)

	fb := h.expect(EventFellBack)
	assert.Equal(t, path.From(2), fb.Path)
	assert.NotEmpty(t, fb.Reason)

	h.nextTicker()
	for i := 0; i < 3; i++ {
		h.tick()
		h.expect(EventPosition)
	}
	h.expect(EventCompleted)

	s, _ := h.controller.Snapshot()
	assert.Equal(t, 1, s.Fallbacks)
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestControllerFailsWhenFallbackInfeasible(t *testing.T) {
	h := newHarness(t, routing.MockResponse{})
	path := linePath(t, 3)
	h.start(path, zoneAround("z", 2))

	for i := 0; i < 3; i++ {
		h.tick()
		h.expect(EventPosition)
	}
	h.expect(EventBlocked)
	failed := h.expect(EventRerouteFailed)
	assert.NotEmpty(t, failed.Reason)

	s, _ := h.controller.Snapshot()
	assert.Equal(t, StatusIdle, s.Status)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, h.drain(), "exactly one terminal signal")
	select {
	case <-h.tickers:
		t.Fatal("no ticker expected after terminal failure")
	default:
	}
}

func TestControllerIgnoresStaleRerouteResponse(t *testing.T) {
	gate := make(chan struct{})
	stale := linePath(t, 2)
	h := newHarness(t, routing.MockResponse{
		Route:         domain.Route{Path: stale},
		Gate:          gate,
		IgnoreContext: true,
	})

	h.start(linePath(t, 4), zoneAround("z", 0))
	h.tick()
	h.expect(EventPosition)
	h.expect(EventBlocked)

	require.Eventually(t, func() bool { return len(h.provider.Requests()) == 1 }, waitTimeout, time.Millisecond)

	fresh := pathOf(t,
		domain.Coordinate{Lat: 5, Lon: 5},
		domain.Coordinate{Lat: 5, Lon: 6},
		domain.Coordinate{Lat: 5, Lon: 7},
	)
	second := h.start(fresh)

	close(gate)
	require.Eventually(t, func() bool {
		return h.logs.FilterMessage("discarding stale reroute result").Len() == 1
	}, waitTimeout, time.Millisecond)

	s, ok := h.controller.Snapshot()
	require.True(t, ok)
	assert.Equal(t, second.Token, s.Token)
	assert.Equal(t, fresh, s.Path)
	assert.Equal(t, StatusRunning, s.Status)
	assert.Empty(t, h.drain())

	h.tick()
	e := h.expect(EventPosition)
	assert.Equal(t, second.ID, e.SessionID)
	assert.Equal(t, fresh.At(0), e.Position)
}

func TestControllerStopIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.controller.Stop()
	_, ok := h.controller.Snapshot()
	assert.False(t, ok)

	h.start(linePath(t, 4))
	mt := h.current
	h.tick()
	h.expect(EventPosition)

	h.controller.Stop()
	h.controller.Stop()

	h.expect(EventStopped)
	assert.Empty(t, h.drain())
	assert.True(t, mt.stopped.Load())

	s, _ := h.controller.Snapshot()
	assert.Equal(t, StatusIdle, s.Status)
}

func TestControllerStopDuringReroute(t *testing.T) {
	gate := make(chan struct{})
	h := newHarness(t, routing.MockResponse{Route: domain.Route{Path: linePath(t, 2)}, Gate: gate})
	h.start(linePath(t, 3), zoneAround("z", 0))
	h.tick()
	h.expect(EventPosition)
	h.expect(EventBlocked)

	h.controller.Stop()
	h.expect(EventStopped)
	close(gate)

	require.Eventually(t, func() bool {
		return h.logs.FilterMessage("discarding stale reroute result").Len() == 1
	}, waitTimeout, time.Millisecond)

	s, _ := h.controller.Snapshot()
	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, h.drain())
}

func TestControllerStartAfterClose(t *testing.T) {
	h := newHarness(t)
	h.controller.Close()

	_, err := h.controller.Start(linePath(t, 2), nil, domain.Coordinate{})
	assert.ErrorIs(t, err, ErrControllerClosed)
}

func TestControllerStartRejectsEmptyPath(t *testing.T) {
	h := newHarness(t)
	_, err := h.controller.Start(domain.Path{}, nil, domain.Coordinate{})
	assert.ErrorIs(t, err, domain.ErrEmptyPath)
}
