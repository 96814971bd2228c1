// Package environ abstracts the process environment so the aggregator's
// side effects can be redirected into memory for dry runs and tests.
package environ

import (
	"os"
	"sort"
	"sync"
)

// Environ is a mutable set of environment variables.
type Environ interface {
	// Set stores a variable; last writer wins.
	Set(key, value string) error

	// Lookup returns a variable and whether it is present.
	Lookup(key string) (string, bool)

	// Keys returns the variable names in sorted order.
	Keys() []string
}

type osEnviron struct{}

// OS returns the Environ backed by the real process environment. Mutating
// process-wide state is this tool's purpose; keep it behind this boundary.
func OS() Environ {
	return osEnviron{}
}

func (osEnviron) Set(key, value string) error {
	return os.Setenv(key, value)
}

func (osEnviron) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (osEnviron) Keys() []string {
	env := os.Environ()
	keys := make([]string, 0, len(env))
	for _, kv := range env {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				keys = append(keys, kv[:i])
				break
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Map is an in-memory Environ used for dry runs and tests.
type Map struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMap creates an empty in-memory environment
func NewMap() *Map {
	return &Map{vars: make(map[string]string)}
}

func (m *Map) Set(key, value string) error {
	m.mu.Lock()
	m.vars[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Map) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *Map) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.vars))
	for k := range m.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the stored variables
func (m *Map) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.vars))
	for k, v := range m.vars {
		out[k] = v
	}
	return out
}
