// Package archive persists compressed frames. Frames are immutable and
// keyed by name (the facade uses the frame's content checksum), so a
// store is a simple put/get namespace with no update semantics.
package archive

import (
	"context"
	"errors"
	"os"
)

// ErrNotFound is returned when a frame does not exist.
//
// Implementations should return an error satisfying
// errors.Is(err, ErrNotFound); the default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// ErrEmptyName is returned for blank frame names.
var ErrEmptyName = errors.New("frame name must not be empty")

// Store is an abstraction over immutable frame storage.
type Store interface {
	// Put stores a frame under name. Overwriting an existing name with
	// identical content is allowed; differing content is undefined.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the frame stored under name.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a frame. Deleting a missing frame is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}
