package credentials

import (
	"encoding/json"
	"fmt"
)

// Serialized map keys.
const (
	KeyClusterEndpoint     = "masters"
	KeyJobID               = "yarnApplicationId"
	KeyDashboardURL        = "dashboardUrl"
	KeyDashboardInstanceID = "dashboardGuid"
	KeyDashboardUsername   = "username"
	KeyDashboardPassword   = "password"
	KeyOAuthClientName     = "uaaClientName"
)

// ClusterCredentials describes one provisioned cluster. Dashboard fields are
// empty until the dashboard has been deployed.
type ClusterCredentials struct {
	ClusterEndpoint     string
	JobID               string
	DashboardURL        string
	DashboardInstanceID string
	DashboardUsername   string
	DashboardPassword   string
	OAuthClientName     string
}

// Dashboard holds the dashboard half of a record.
type Dashboard struct {
	InstanceID      string
	URL             string
	Username        string
	Password        string
	OAuthClientName string
}

// WithDashboard returns a copy of c with the dashboard fields set.
func (c ClusterCredentials) WithDashboard(d Dashboard) ClusterCredentials {
	c.DashboardInstanceID = d.InstanceID
	c.DashboardURL = d.URL
	c.DashboardUsername = d.Username
	c.DashboardPassword = d.Password
	c.OAuthClientName = d.OAuthClientName
	return c
}

// HasDashboard reports whether a dashboard instance is recorded.
func (c ClusterCredentials) HasDashboard() bool {
	return c.DashboardInstanceID != ""
}

// ToMap returns the record as a string map. Empty fields are omitted.
func (c ClusterCredentials) ToMap() map[string]string {
	m := make(map[string]string, 7)
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set(KeyClusterEndpoint, c.ClusterEndpoint)
	set(KeyJobID, c.JobID)
	set(KeyDashboardURL, c.DashboardURL)
	set(KeyDashboardInstanceID, c.DashboardInstanceID)
	set(KeyDashboardUsername, c.DashboardUsername)
	set(KeyDashboardPassword, c.DashboardPassword)
	set(KeyOAuthClientName, c.OAuthClientName)
	return m
}

// FromMap builds a record from a string map. An empty map yields nil.
func FromMap(m map[string]string) *ClusterCredentials {
	if len(m) == 0 {
		return nil
	}
	return &ClusterCredentials{
		ClusterEndpoint:     m[KeyClusterEndpoint],
		JobID:               m[KeyJobID],
		DashboardURL:        m[KeyDashboardURL],
		DashboardInstanceID: m[KeyDashboardInstanceID],
		DashboardUsername:   m[KeyDashboardUsername],
		DashboardPassword:   m[KeyDashboardPassword],
		OAuthClientName:     m[KeyOAuthClientName],
	}
}

// MarshalJSON encodes the record as its string map.
func (c ClusterCredentials) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

// UnmarshalJSON decodes a record from its string map.
func (c *ClusterCredentials) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("credential record is not a string map: %w", err)
	}
	if decoded := FromMap(m); decoded != nil {
		*c = *decoded
	} else {
		*c = ClusterCredentials{}
	}
	return nil
}

// Redacted returns a copy with the dashboard password masked.
func (c ClusterCredentials) Redacted() ClusterCredentials {
	if c.DashboardPassword != "" {
		c.DashboardPassword = "********"
	}
	return c
}
