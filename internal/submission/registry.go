package submission

import "sync"

// Registry holds one Flow per visitor. A flow lives while its visitor stays on
// the Farmer Input page; Release tears it down when they navigate away.
type Registry struct {
	mu      sync.Mutex
	flows   map[string]*Flow
	newFlow func(visitorID string) *Flow
}

// NewRegistry creates a registry that builds flows with newFlow.
func NewRegistry(newFlow func(visitorID string) *Flow) *Registry {
	return &Registry{
		flows:   make(map[string]*Flow),
		newFlow: newFlow,
	}
}

// Get returns the visitor's live flow, creating one if needed.
func (r *Registry) Get(visitorID string) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.flows[visitorID]; ok && !f.Closed() {
		return f
	}
	f := r.newFlow(visitorID)
	r.flows[visitorID] = f
	return f
}

// Lookup returns the visitor's live flow without creating one.
func (r *Registry) Lookup(visitorID string) (*Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[visitorID]
	if !ok || f.Closed() {
		return nil, false
	}
	return f, true
}

// Release closes and forgets the visitor's flow. It reports whether a flow existed.
func (r *Registry) Release(visitorID string) bool {
	r.mu.Lock()
	f, ok := r.flows[visitorID]
	delete(r.flows, visitorID)
	r.mu.Unlock()
	if ok {
		f.Close()
	}
	return ok
}

// Len returns the number of tracked flows.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// CloseAll tears down every flow, for server shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	flows := r.flows
	r.flows = make(map[string]*Flow)
	r.mu.Unlock()
	for _, f := range flows {
		f.Close()
	}
}
