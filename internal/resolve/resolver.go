// Package resolve turns flat key-value mappings with embedded secret
// references into mappings of live secret values.
package resolve

import (
	"context"
	"sync"
	"time"

	"github.com/secretenv/secretenv/internal/backend"
	"github.com/secretenv/secretenv/internal/logging"
	"github.com/secretenv/secretenv/internal/reference"
)

// Policy selects how a resource identifier is extracted from a matched
// reference. The two policies coexist deliberately: which secrets resolve
// against a real backend depends on how that backend is addressed, so the
// policy is fixed per resolution path rather than unified globally.
type Policy int

const (
	// SecretNamePolicy extracts the friendly name (ARN segments from index 6
	// onward). Used with the Secrets Manager backend.
	SecretNamePolicy Policy = iota

	// ARNPolicy extracts the full ARN between the braces. Used with the SSM
	// backend, which accepts ARNs directly.
	ARNPolicy
)

// DefaultTimeout bounds each backend call. The store can hang on an
// unreachable endpoint, so every fetch gets its own deadline.
const DefaultTimeout = 10 * time.Second

// maxConcurrentFetches bounds the fan-out per mapping so the backend is not
// overwhelmed.
const maxConcurrentFetches = 10

// Resolution records the outcome for a single key. Keys whose value is not a
// reference pass through with Resolved=false and Err=nil. Keys whose
// reference failed keep the raw placeholder as Value and carry the failure
// in Err.
type Resolution struct {
	Key        string
	Value      string
	ResourceID string
	Resolved   bool
	Err        error
}

// Resolver resolves secret references through a backend.
type Resolver struct {
	backend backend.Backend
	logger  *logging.Logger
	policy  Policy
	timeout time.Duration
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTimeout overrides the per-fetch timeout
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// New creates a resolver bound to one backend and one extraction policy
func New(b backend.Backend, policy Policy, logger *logging.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		backend: b,
		logger:  logger,
		policy:  policy,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveMapping resolves every reference value in the input mapping. The
// result has exactly the same key set as the input: non-reference values are
// copied unchanged, resolved references carry the fetched value, and failed
// references keep their raw placeholder. A failed key never aborts the rest
// of the mapping.
//
// Keys are resolved concurrently; each fetch is independent and the backend
// call count is bounded.
func (r *Resolver) ResolveMapping(ctx context.Context, input map[string]string) map[string]Resolution {
	result := make(map[string]Resolution, len(input))
	resultMu := &sync.Mutex{}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentFetches)

	for key, value := range input {
		ref, ok := reference.Parse(value)
		if !ok {
			// Passthrough; no backend call is made. The mutex still applies:
			// goroutines for earlier keys may already be writing.
			resultMu.Lock()
			result[key] = Resolution{Key: key, Value: value}
			resultMu.Unlock()
			continue
		}

		wg.Add(1)
		go func(key string, ref reference.Reference) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			res := r.resolveReference(ctx, key, ref)

			resultMu.Lock()
			result[key] = res
			resultMu.Unlock()
		}(key, ref)
	}

	wg.Wait()

	for _, res := range result {
		if res.Err != nil {
			r.logger.Warn("could not resolve %s (%s): %v; keeping placeholder", res.Key, res.ResourceID, res.Err)
		}
	}

	return result
}

// resolveReference fetches one reference; failures are recorded, not raised
func (r *Resolver) resolveReference(ctx context.Context, key string, ref reference.Reference) Resolution {
	res := Resolution{Key: key, Value: ref.Raw}

	id, err := r.extractIdentifier(ref)
	if err != nil {
		res.Err = err
		return res
	}
	res.ResourceID = id

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	value, err := r.backend.FetchValue(fetchCtx, id)
	if err != nil {
		res.Err = err
		return res
	}

	res.Value = value
	res.Resolved = true
	r.logger.Debug("resolved %s from %s", key, r.backend.Name())
	return res
}

func (r *Resolver) extractIdentifier(ref reference.Reference) (string, error) {
	if r.policy == ARNPolicy {
		return ref.ARN(), nil
	}
	return ref.SecretName()
}

// Planned describes a reference that would be resolved, without fetching it.
type Planned struct {
	Key        string
	ResourceID string
	Err        error
}

// Plan lists the references in a mapping and the identifier each would
// resolve to. No backend calls are made.
func (r *Resolver) Plan(input map[string]string) []Planned {
	var out []Planned
	for key, value := range input {
		ref, ok := reference.Parse(value)
		if !ok {
			continue
		}
		id, err := r.extractIdentifier(ref)
		out = append(out, Planned{Key: key, ResourceID: id, Err: err})
	}
	return out
}

// Values flattens resolutions into a plain mapping, keeping the failure
// semantics: failed keys contribute their raw placeholder.
func Values(resolutions map[string]Resolution) map[string]string {
	out := make(map[string]string, len(resolutions))
	for key, res := range resolutions {
		out[key] = res.Value
	}
	return out
}

// Failed returns the resolutions that carry an error, for diagnostics.
func Failed(resolutions map[string]Resolution) []Resolution {
	var out []Resolution
	for _, res := range resolutions {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
