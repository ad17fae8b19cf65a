package credentials

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists for an instance. Backends
// return errors matching it for missing keys.
var ErrNotFound = errors.New("credential record not found")

// ErrExists is returned by Backend.Create for a path that is already taken.
var ErrExists = errors.New("record already exists")

// ErrLeaseHeld is returned when another broker run holds the instance lease.
var ErrLeaseHeld = errors.New("instance is locked by another operation")

// Error is a persistence failure for one instance.
type Error struct {
	Op         string
	InstanceID string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s credentials of instance %s: %v", e.Op, e.InstanceID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
