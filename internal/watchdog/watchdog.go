// Package watchdog is a process-wide heartbeat registry. The sync loop pings
// it after every clean cycle; an external checker reads it to decide whether
// the process is still making progress. It never terminates the process.
package watchdog

import (
	"sync"
	"time"
)

type entry struct {
	registeredAt  time.Time
	lastPing      time.Time
	pinged        bool
	initialGrace  time.Duration
	steadyTimeout time.Duration
}

// Registry is safe for one writer and any number of concurrent readers.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

func New() *Registry {
	return &Registry{
		entries: map[string]*entry{},
		now:     time.Now,
	}
}

// Register declares a named heartbeat. Until the first ping the key is
// healthy for initialGrace after registration; afterwards it is healthy for
// steadyTimeout after the most recent ping. Re-registering a key resets it.
func (r *Registry) Register(key string, initialGrace, steadyTimeout time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = &entry{
		registeredAt:  r.now(),
		initialGrace:  initialGrace,
		steadyTimeout: steadyTimeout,
	}
}

// Ping records successful activity for key. Pings for unknown keys are
// dropped.
func (r *Registry) Ping(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return
	}

	e.lastPing = r.now()
	e.pinged = true
}

// Healthy reports whether key is within its grace period or timeout.
// Unknown keys are unhealthy.
func (r *Registry) Healthy(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok {
		return false
	}

	return r.healthy(e)
}

func (r *Registry) healthy(e *entry) bool {
	if !e.pinged {
		return r.now().Sub(e.registeredAt) < e.initialGrace
	}

	return r.now().Sub(e.lastPing) < e.steadyTimeout
}

// SinceLastPing returns the elapsed time since the last ping for key. The
// second value is false if the key is unknown or was never pinged.
func (r *Registry) SinceLastPing(key string) (time.Duration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok || !e.pinged {
		return 0, false
	}

	return r.now().Sub(e.lastPing), true
}

// Status is one key's externally visible liveness state.
type Status struct {
	Key      string     `json:"key"`
	Healthy  bool       `json:"healthy"`
	LastPing *time.Time `json:"last_ping,omitempty"`
}

// Snapshot returns the state of every registered key.
func (r *Registry) Snapshot() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Status, 0, len(r.entries))
	for key, e := range r.entries {
		s := Status{
			Key:     key,
			Healthy: r.healthy(e),
		}
		if e.pinged {
			t := e.lastPing
			s.LastPing = &t
		}
		out = append(out, s)
	}

	return out
}
