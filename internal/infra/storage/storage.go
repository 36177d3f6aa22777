package storage

import (
	"context"
	"errors"
)

// ErrNotFound reports that no object exists at the requested key. Callers
// branch on it with errors.Is; any other error means the remote state could
// not be determined and must abort the surrounding operation.
var ErrNotFound = errors.New("object not found")

// ObjectStore abstracts a minimal object-storage API used for artifact
// content and lock records. Operations are atomic per key only; there is no
// multi-key transaction spanning a lock record and its content object.
type ObjectStore interface {
	// Get returns the object content, or an error wrapping ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Put creates or overwrites the object at key.
	Put(ctx context.Context, key, content string) error
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}
