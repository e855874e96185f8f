package simulation

import (
	"context"
	"errors"
	"reroute-service/internal/domain"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultTickInterval = 500 * time.Millisecond

var ErrControllerClosed = errors.New("simulation controller is closed")

type ControllerConfig struct {
	AgentID     string
	Interval    time.Duration
	Coordinator *Coordinator
	Sink        EventSink
	Logger      *zap.Logger
	// NewTicker defaults to NewTimeTicker.
	NewTicker func(time.Duration) Ticker
	Now       func() time.Time
}

// Controller drives at most one session at a time for a single agent.
//
// Session state is only mutated with mu held, from the tick loop, from a
// reroute completion, or from Start and Stop. Each session runs either a
// tick loop or a reroute, never both: the tick that detects a blockage ends
// the loop and the reroute completion starts a new one.
type Controller struct {
	agentID     string
	interval    time.Duration
	coordinator *Coordinator
	sink        EventSink
	logger      *zap.Logger
	newTicker   func(time.Duration) Ticker
	now         func() time.Time

	mu      sync.Mutex
	session *Session
	token   uint64
	ticker  Ticker
	cancel  context.CancelFunc
	closed  bool

	wg sync.WaitGroup
}

func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		agentID:     cfg.AgentID,
		interval:    cfg.Interval,
		coordinator: cfg.Coordinator,
		sink:        cfg.Sink,
		logger:      cfg.Logger,
		newTicker:   cfg.NewTicker,
		now:         cfg.Now,
	}
	if c.interval <= 0 {
		c.interval = DefaultTickInterval
	}
	if c.sink == nil {
		c.sink = nopSink{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.newTicker == nil {
		c.newTicker = NewTimeTicker
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.logger = c.logger.With(zap.String("agent_id", c.agentID))
	return c
}

// Start supersedes any previous session: its timer is stopped, its pending
// reroute is cancelled and will be ignored when it completes, and a new
// running session is created on path.
func (c *Controller) Start(path domain.Path, zones []domain.ExclusionZone, destination domain.Coordinate) (Session, error) {
	if path.IsEmpty() {
		return Session{}, domain.ErrEmptyPath
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Session{}, ErrControllerClosed
	}

	c.haltLocked()

	c.token++
	s := NewSession(c.token, c.agentID, path, zones, destination)
	c.session = &s

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	ev := s.event(EventStarted)
	ev.Path = path
	c.emitLocked(ev)

	c.logger.Info("simulation started",
		zap.String("session_id", s.ID.String()),
		zap.Int("points", path.Len()),
		zap.Int("zones", len(zones)),
	)

	c.startTickingLocked(ctx, s.Token)
	return s, nil
}

// Stop cancels the active timer and any pending reroute and moves the
// session to idle. It is safe to call at any time, any number of times.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.haltLocked()

	if c.session == nil || c.session.Status == StatusIdle {
		return
	}
	_ = c.session.transition(StatusIdle)
	c.emitLocked(c.session.event(EventStopped))
	c.logger.Info("simulation stopped", zap.String("session_id", c.session.ID.String()))
}

// Close stops the controller and waits for its goroutines to exit.
// Start fails after Close.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.Stop()
	c.wg.Wait()
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

func (c *Controller) haltLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.stopTickerLocked()
}

func (c *Controller) stopTickerLocked() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Controller) startTickingLocked(ctx context.Context, token uint64) {
	t := c.newTicker(c.interval)
	c.ticker = t

	c.wg.Add(1)
	go c.run(ctx, token, t)
}

func (c *Controller) run(ctx context.Context, token uint64, t Ticker) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if !c.tick(ctx, token) {
				return
			}
		}
	}
}

// tick advances the session once and reports whether the loop should keep
// running.
func (c *Controller) tick(ctx context.Context, token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil || c.session == nil || c.session.Token != token {
		return false
	}

	next, events := Advance(*c.session)
	c.session = &next
	c.emitLocked(events...)

	switch next.Status {
	case StatusRunning:
		return true

	case StatusRerouting:
		c.stopTickerLocked()
		c.logger.Info("blockage detected, rerouting",
			zap.String("session_id", next.ID.String()),
			zap.Int("index", next.Index),
			zap.String("zone_id", next.BlockedZone),
		)

		c.wg.Add(1)
		go c.reroute(ctx, next.RerouteRequest())
		return false

	default:
		c.stopTickerLocked()
		c.logger.Info("simulation finished",
			zap.String("session_id", next.ID.String()),
			zap.String("status", next.Status.String()),
		)
		return false
	}
}

func (c *Controller) reroute(ctx context.Context, req RerouteRequest) {
	defer c.wg.Done()

	var result RerouteResult
	if c.coordinator == nil {
		result = RerouteResult{Token: req.Token, Outcome: OutcomeFailed, Reason: "no routing service configured"}
		if fb, ok := FallbackPath(req.Original, req.Current); ok {
			result = RerouteResult{Token: req.Token, Outcome: OutcomeFallback, Path: fb, Reason: result.Reason}
		}
	} else {
		result = c.coordinator.Reroute(ctx, req)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil || c.session == nil || c.session.Token != req.Token {
		c.logger.Debug("discarding stale reroute result",
			zap.Uint64("token", req.Token),
			zap.String("outcome", result.Outcome.String()),
		)
		return
	}

	next, events := Resume(*c.session, result)
	c.session = &next
	c.emitLocked(events...)

	switch next.Status {
	case StatusRunning:
		c.logger.Info("simulation resumed",
			zap.String("session_id", next.ID.String()),
			zap.String("outcome", result.Outcome.String()),
			zap.Int("points", next.Path.Len()),
		)
		c.startTickingLocked(ctx, next.Token)
	case StatusIdle:
		c.haltLocked()
		c.logger.Warn("reroute failed",
			zap.String("session_id", next.ID.String()),
			zap.String("reason", result.Reason),
		)
	}
}

func (c *Controller) emitLocked(events ...Event) {
	now := c.now()
	for _, e := range events {
		if e.At.IsZero() {
			e.At = now
		}
		c.sink.Emit(e)
	}
}
