package main

import (
	"fmt"
	"sync"

	"batch-scorer-server/scoring"
)

// Registry holds the scoring registrations this worker can execute,
// keyed by service name. Workers only run functions compiled into them;
// the queue carries data references, never code.
type Registry struct {
	mu   sync.RWMutex
	regs map[string]*scoring.Registration
}

func NewRegistry() *Registry {
	return &Registry{regs: make(map[string]*scoring.Registration)}
}

// Add registers a published scoring registration under its service name
func (r *Registry) Add(reg *scoring.Registration) error {
	if reg.State != scoring.StatePublished {
		return fmt.Errorf("registration %q is %s, not published", reg.ServiceName, reg.State)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.regs[reg.ServiceName]; exists {
		return fmt.Errorf("service %q already registered", reg.ServiceName)
	}
	r.regs[reg.ServiceName] = reg
	return nil
}

// Get looks up a registration by service name
func (r *Registry) Get(serviceName string) (*scoring.Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.regs[serviceName]
	return reg, ok
}

// Names returns the registered service names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.regs))
	for name := range r.regs {
		names = append(names, name)
	}
	return names
}
