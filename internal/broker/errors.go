package broker

import "errors"

// ErrInstanceNotFound is returned when no credentials are stored for an instance.
var ErrInstanceNotFound = errors.New("service instance not found")
