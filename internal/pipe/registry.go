package pipe

import (
	"sync"
	"sync/atomic"

	"github.com/relaywire/realmproxy/internal/metrics"
)

// Registry tracks every relay currently in progress. It generalizes the
// donor hub's client registry: instead of fanning one broadcast out to every
// registered member, it exists so the server can report and shut down N
// independent 1:1 relays.
type Registry struct {
	mu     sync.RWMutex
	relays map[uint64]*Relay
	nextID uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{relays: make(map[uint64]*Relay)}
}

// NextID returns a fresh, monotonically increasing relay identifier.
func (reg *Registry) NextID() uint64 {
	return atomic.AddUint64(&reg.nextID, 1)
}

// Add registers a relay as in progress and updates the active gauge.
func (reg *Registry) Add(r *Relay) {
	reg.mu.Lock()
	reg.relays[r.id] = r
	n := len(reg.relays)
	reg.mu.Unlock()
	metrics.SetActive(n)
}

// Remove unregisters a relay and updates the active gauge.
func (reg *Registry) Remove(r *Relay) {
	reg.mu.Lock()
	delete(reg.relays, r.id)
	n := len(reg.relays)
	reg.mu.Unlock()
	metrics.SetActive(n)
}

// Snapshot returns every relay currently registered.
func (reg *Registry) Snapshot() []*Relay {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Relay, 0, len(reg.relays))
	for _, r := range reg.relays {
		out = append(out, r)
	}
	return out
}

// Count returns the number of relays currently registered.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.relays)
}
