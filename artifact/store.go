// Package artifact provides durable binary storage for uploaded files.
//
// Stores follow an append-only archive model: every upload creates a new
// key derived from the uploading identity, the upload timestamp and a
// random component, so keys are never reused and nothing is overwritten.
// Deletion is intentionally absent from the contract.
package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store persists raw artifact bytes under unique keys.
// Implementations must be thread-safe and support concurrent, isolated
// writers.
type Store interface {
	// Put stores the content under a fresh key derived from the identity
	// and suggested name. Never overwrites an existing object.
	Put(ctx context.Context, identity, name string, content []byte) (string, error)

	// Get retrieves the content stored under key.
	// Returns ErrObjectNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
}

// NewKey derives a unique storage key. Uniqueness comes from the
// timestamp and the random UUID component; the identity and name keep
// keys traceable to their upload.
func NewKey(identity, name string) string {
	return fmt.Sprintf("uploads/%s/%d-%s/%s", identity, time.Now().UTC().UnixMicro(), uuid.NewString(), name)
}
