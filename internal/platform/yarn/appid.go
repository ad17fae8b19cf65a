package yarn

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrMalformedApplicationID is returned for identifiers that do not have the
// application_<clusterTimestamp>_<sequence> shape.
var ErrMalformedApplicationID = errors.New("malformed application id")

var applicationIDPattern = regexp.MustCompile(`^application_(\d+)_(\d+)$`)

// ApplicationID is a parsed YARN application identifier.
type ApplicationID struct {
	ClusterTimestamp int64
	Sequence         int
	raw              string
}

// ParseApplicationID parses s as a YARN application identifier.
func ParseApplicationID(s string) (ApplicationID, error) {
	m := applicationIDPattern.FindStringSubmatch(s)
	if m == nil {
		return ApplicationID{}, fmt.Errorf("%w: %q", ErrMalformedApplicationID, s)
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ApplicationID{}, fmt.Errorf("%w: %q: %v", ErrMalformedApplicationID, s, err)
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return ApplicationID{}, fmt.Errorf("%w: %q: %v", ErrMalformedApplicationID, s, err)
	}
	return ApplicationID{ClusterTimestamp: ts, Sequence: seq, raw: s}, nil
}

func (a ApplicationID) String() string {
	if a.raw != "" {
		return a.raw
	}
	return fmt.Sprintf("application_%d_%04d", a.ClusterTimestamp, a.Sequence)
}
