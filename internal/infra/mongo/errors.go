package mongo

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the store could not be reached. It is surfaced to
	// the caller as-is; nothing in this package retries.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("document not found")
)

// unavailable tags a driver failure as ErrUnavailable while keeping the
// underlying cause in the message.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
