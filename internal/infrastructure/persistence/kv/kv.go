// Package kv defines the keyed persistence abstraction shared by every storage backend.
//
// Values are opaque byte slices (JSON documents in practice). A Set replaces the
// previous value for the key atomically; a Get observes the most recently
// completed Set. Nothing is ever cleared implicitly.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set
var ErrNotFound = errors.New("key not found")

// Store is a string-keyed persistent map
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by the configuration
const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Backends lists the supported backend names
func Backends() []string {
	return []string{BackendJSON, BackendSQLite, BackendMemory}
}
