// Package backend wraps the remote secret store behind a small pluggable
// interface and a uniform error taxonomy.
package backend

import (
	"context"
	"fmt"
)

// Backend fetches secret material from a remote store. Implementations must
// be safe for concurrent use; the resolver fans out per-key fetches.
type Backend interface {
	// Name returns the backend's stable identifier, used in logs and errors.
	Name() string

	// FetchValue returns the plaintext value for a resource identifier. It
	// makes a single attempt; retry is the caller's concern.
	FetchValue(ctx context.Context, resourceID string) (string, error)

	// FetchBundle returns the flat key→string mapping deserialized from the
	// named secret's JSON payload.
	FetchBundle(ctx context.Context, name string) (map[string]string, error)

	// Validate checks that the backend is reachable with working credentials.
	Validate(ctx context.Context) error
}

// NotFoundError indicates the resource identifier does not exist in the store.
type NotFoundError struct {
	Backend    string
	ResourceID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("secret not found: %s in %s", e.ResourceID, e.Backend)
}

// AccessDeniedError indicates the caller lacks permission for the operation.
type AccessDeniedError struct {
	Backend string
	Message string
}

func (e AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied by %s: %s", e.Backend, e.Message)
}

// TransientError indicates a network or internal-service failure that may
// succeed on a later run.
type TransientError struct {
	Backend string
	Err     error
}

func (e TransientError) Error() string {
	return fmt.Sprintf("transient %s error: %v", e.Backend, e.Err)
}

func (e TransientError) Unwrap() error {
	return e.Err
}

// MalformedRequestError indicates the store rejected the identifier
// syntactically.
type MalformedRequestError struct {
	Backend    string
	ResourceID string
	Err        error
}

func (e MalformedRequestError) Error() string {
	return fmt.Sprintf("%s rejected identifier %q: %v", e.Backend, e.ResourceID, e.Err)
}

func (e MalformedRequestError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a named bundle's payload was not a flat JSON
// string-to-string object.
type DecodeError struct {
	Backend string
	Name    string
	Err     error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("secret %q in %s is not a flat JSON object: %v", e.Name, e.Backend, e.Err)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// Options holds the store-agnostic configuration shared by the AWS-backed
// implementations. Static credentials and the endpoint override exist for
// local emulation (LocalStack); real deployments use the provider default
// credential chain.
type Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}
