package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryCreatesOneControllerPerAgent(t *testing.T) {
	created := 0
	r := NewRegistry(func(agentID string) *Controller {
		created++
		return NewController(ControllerConfig{AgentID: agentID})
	})
	defer r.Close()

	a := r.Controller("a")
	assert.Same(t, a, r.Controller("a"))
	r.Controller("b")

	assert.Equal(t, 2, created)
	assert.Equal(t, []string{"a", "b"}, r.Agents())

	_, ok := r.Lookup("c")
	assert.False(t, ok)
}
