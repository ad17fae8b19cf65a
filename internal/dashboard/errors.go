package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is returned when the platform domain cannot be derived from the API endpoint.
	ErrDomain = errors.New("cannot extract platform domain")
	// ErrNotRunning is returned when a new instance was not confirmed RUNNING.
	ErrNotRunning = errors.New("instance not running")
	// ErrNotStopped is returned when a stopped instance was not confirmed STOPPED.
	ErrNotStopped = errors.New("instance not stopped")
)

// Error is a dashboard deployment failure.
type Error struct {
	Op         string
	InstanceID string
	Err        error
}

func (e *Error) Error() string {
	if e.InstanceID == "" {
		return fmt.Sprintf("dashboard %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("dashboard %s failed for instance %s: %v", e.Op, e.InstanceID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
