// Package fakes provides scripted test doubles shared across packages.
package fakes

import (
	"context"
	"sync"

	"github.com/secretenv/secretenv/internal/backend"
)

// Backend is a scripted in-memory backend.Backend implementation.
//
// Values holds resolvable secrets keyed by resource identifier, Bundles
// holds named bundle payloads, and Errors scripts per-identifier failures
// that win over Values. All methods are safe for concurrent use and count
// their calls.
type Backend struct {
	BackendName string
	Values      map[string]string
	Bundles     map[string]map[string]string
	Errors      map[string]error
	ValidateErr error

	mu         sync.Mutex
	fetchCalls []string
}

// NewBackend creates an empty fake backend
func NewBackend() *Backend {
	return &Backend{
		BackendName: "fake",
		Values:      make(map[string]string),
		Bundles:     make(map[string]map[string]string),
		Errors:      make(map[string]error),
	}
}

func (f *Backend) Name() string {
	return f.BackendName
}

func (f *Backend) FetchValue(_ context.Context, resourceID string) (string, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, resourceID)
	f.mu.Unlock()

	if err, ok := f.Errors[resourceID]; ok {
		return "", err
	}
	value, ok := f.Values[resourceID]
	if !ok {
		return "", backend.NotFoundError{Backend: f.BackendName, ResourceID: resourceID}
	}
	return value, nil
}

func (f *Backend) FetchBundle(_ context.Context, name string) (map[string]string, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, name)
	f.mu.Unlock()

	if err, ok := f.Errors[name]; ok {
		return nil, err
	}
	bundle, ok := f.Bundles[name]
	if !ok {
		return nil, backend.NotFoundError{Backend: f.BackendName, ResourceID: name}
	}
	out := make(map[string]string, len(bundle))
	for k, v := range bundle {
		out[k] = v
	}
	return out, nil
}

func (f *Backend) Validate(_ context.Context) error {
	return f.ValidateErr
}

// FetchCalls returns the resource identifiers fetched so far, in call order
func (f *Backend) FetchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.fetchCalls))
	copy(out, f.fetchCalls)
	return out
}

// FetchCount returns the number of fetch calls made
func (f *Backend) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetchCalls)
}
