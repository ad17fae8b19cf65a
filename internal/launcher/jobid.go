package launcher

import (
	"regexp"
	"strings"

	"github.com/imamik/gearpump-broker/internal/platform/yarn"
)

var (
	jobIDPattern   = regexp.MustCompile(`\bapplication_\d+_\d+\b`)
	jobIDCandidate = regexp.MustCompile(`application_[^\s/]+`)
)

// extractJobID returns the first well-formed YARN application id in output.
// Tokens that merely start with "application_" are skipped. It returns "" when
// no id is mentioned, and an error only when the output mentions application
// tokens and none of them is well-formed.
func extractJobID(output []byte) (string, error) {
	for _, token := range jobIDPattern.FindAll(output, -1) {
		id, err := yarn.ParseApplicationID(string(token))
		if err == nil {
			return id.String(), nil
		}
	}

	token := jobIDCandidate.Find(output)
	if token == nil {
		return "", nil
	}
	_, err := yarn.ParseApplicationID(strings.TrimRight(string(token), `.,;:'")]}`))
	return "", err
}
