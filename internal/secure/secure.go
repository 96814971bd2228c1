// Package secure holds secret values in encrypted memory while they are in
// flight between the backend and an output sink. Values are wrapped in a
// memguard enclave so plaintext only exists inside a locked buffer for the
// duration of a single use.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Value is a secret held encrypted at rest in memory.
type Value struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// NewValue seals the given bytes into a protected enclave. The input slice
// is wiped by memguard; callers must not reuse it.
func NewValue(data []byte) *Value {
	return &Value{enclave: memguard.NewEnclave(data)}
}

// String implements fmt.Stringer so a Value can never leak through logging.
func (v *Value) String() string {
	return "[REDACTED]"
}

// Use decrypts the value and passes the plaintext to fn. The locked buffer
// is destroyed when fn returns, so fn must not retain the slice.
func (v *Value) Use(fn func([]byte) error) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.destroyed {
		return fn(nil)
	}

	locked, err := v.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()
	return fn(locked.Bytes())
}

// Destroy prevents further use. Idempotent; after Destroy, Use sees nil.
func (v *Value) Destroy() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enclave = nil
	v.destroyed = true
}

// Purge wipes all memguard state. Call once at process exit.
func Purge() {
	memguard.Purge()
}
