package launcher

import (
	"errors"
	"fmt"
)

// ErrCredentialsMissing is returned when the launch exits cleanly but the
// job id or the cluster endpoint could not be determined.
var ErrCredentialsMissing = errors.New("could not obtain cluster credentials")

// Error is a cluster launch failure.
type Error struct {
	Op  string
	Err error
	// Output is the tail of the scheduler command output.
	Output string
}

func (e *Error) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("cluster %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cluster %s failed: %v (output: %s)", e.Op, e.Err, e.Output)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const outputTail = 512

func tail(b []byte) string {
	if len(b) > outputTail {
		b = b[len(b)-outputTail:]
	}
	return string(b)
}
