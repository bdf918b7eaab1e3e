package choices

import (
	"sync"
	"weak"
)

// Registry tracks the one open controller among those sharing it. It holds
// the open controller weakly, so an abandoned controller can still be
// collected.
type Registry struct {
	mu      sync.Mutex
	current weak.Pointer[Controller]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by controllers
// created without WithRegistry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Claim closes whichever other controller is open. With hold the slot is
// then assigned to c; otherwise it is left empty.
func (r *Registry) Claim(c *Controller, hold bool) {
	if r == nil || c == nil {
		return
	}
	r.mu.Lock()
	previous := r.current.Value()
	if hold {
		r.current = weak.Make(c)
	} else {
		r.current = weak.Pointer[Controller]{}
	}
	r.mu.Unlock()

	if previous != nil && previous != c {
		previous.Commit(Open(false))
	}
}

// Release empties the slot if c holds it.
func (r *Registry) Release(c *Controller) {
	if r == nil || c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current.Value() == c {
		r.current = weak.Pointer[Controller]{}
	}
}

// Current returns the controller holding the slot, if any.
func (r *Registry) Current() *Controller {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Value()
}
