package events

import (
	"reroute-service/internal/simulation"
	"sync"

	"go.uber.org/zap"
)

const defaultSubscriberBuffer = 64

// Hub fans simulation events out to per-agent subscribers. Delivery never
// blocks the emitting controller: a subscriber whose buffer is full misses
// the event.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	logger *zap.Logger
}

type Subscription struct {
	agentID string
	ch      chan Message
	hub     *Hub
	once    sync.Once
}

// C delivers messages until the subscription is cancelled.
func (s *Subscription) C() <-chan Message { return s.ch }

// Cancel removes the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

func (h *Hub) Subscribe(agentID string) *Subscription {
	s := &Subscription{agentID: agentID, ch: make(chan Message, h.buffer), hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[agentID] == nil {
		h.subs[agentID] = make(map[*Subscription]struct{})
	}
	h.subs[agentID][s] = struct{}{}
	return s
}

func (h *Hub) Emit(e simulation.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[e.AgentID]
	if len(subs) == 0 {
		return
	}

	msg := NewMessage(e)
	for s := range subs {
		select {
		case s.ch <- msg:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				zap.String("agent_id", e.AgentID),
				zap.String("kind", msg.Kind),
			)
		}
	}
}

// Subscribers returns the number of live subscriptions for agentID.
func (h *Hub) Subscribers(agentID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[agentID])
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subs[s.agentID]; ok {
		delete(subs, s)
		if len(subs) == 0 {
			delete(h.subs, s.agentID)
		}
	}
	close(s.ch)
}
