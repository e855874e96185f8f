package simulation

import (
	"sort"
	"sync"
)

// Registry owns one Controller per agent. Controllers are created on first
// use and live until Close.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	factory     func(agentID string) *Controller
}

func NewRegistry(factory func(agentID string) *Controller) *Registry {
	return &Registry{
		controllers: make(map[string]*Controller),
		factory:     factory,
	}
}

// Controller returns the agent's controller, creating it if needed.
func (r *Registry) Controller(agentID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.controllers[agentID]; ok {
		return c
	}
	c := r.factory(agentID)
	r.controllers[agentID] = c
	return c
}

func (r *Registry) Lookup(agentID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[agentID]
	return c, ok
}

// Agents returns the known agent ids in sorted order.
func (r *Registry) Agents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.controllers))
	for id := range r.controllers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops every controller and waits for their goroutines.
func (r *Registry) Close() {
	r.mu.Lock()
	cs := make([]*Controller, 0, len(r.controllers))
	for _, c := range r.controllers {
		cs = append(cs, c)
	}
	r.mu.Unlock()

	for _, c := range cs {
		c.Close()
	}
}
