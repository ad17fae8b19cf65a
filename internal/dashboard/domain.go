package dashboard

import (
	"fmt"
	"net/url"
	"strings"
)

// PlatformDomain strips the leftmost DNS label from the host of apiEndpoint:
// https://api.example.com yields example.com.
func PlatformDomain(apiEndpoint string) (string, error) {
	u, err := url.Parse(apiEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w from %q: %v", ErrDomain, apiEndpoint, err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return "", fmt.Errorf("%w from %q: not an absolute URL", ErrDomain, apiEndpoint)
	}

	_, domain, found := strings.Cut(u.Hostname(), ".")
	if !found || domain == "" {
		return "", fmt.Errorf("%w from %q: host has a single label", ErrDomain, apiEndpoint)
	}
	return domain, nil
}

// URL returns the address a dashboard instance called name is served at.
func URL(name, apiEndpoint string) (string, error) {
	domain, err := PlatformDomain(apiEndpoint)
	if err != nil {
		return "", err
	}
	return name + "." + domain, nil
}
