// Package catalog is a client for the platform application catalog: it lists
// marketplace offerings and manages service instances created from them.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/imamik/gearpump-broker/internal/platform/rest"
)

// Offering is a marketplace entry.
type Offering struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Plans []Plan `json:"offeringPlans"`
}

// Plan is a plan of an offering.
type Plan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MetadataEntry is a key/value pair attached to a service instance.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CreateServiceRequest is the body of a service instance creation.
type CreateServiceRequest struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	OfferingID string          `json:"offeringId"`
	PlanID     string          `json:"planId"`
	SpaceID    string          `json:"spaceId,omitempty"`
	OrgID      string          `json:"orgId,omitempty"`
	Metadata   []MetadataEntry `json:"metadata"`
}

// Service is a service instance as reported by the catalog.
type Service struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
	// Raw is the complete response body.
	Raw json.RawMessage `json:"-"`
}

// Client is a catalog API client. Requests are authenticated by the HTTP
// client passed through rest.WithHTTPClient.
type Client struct {
	rest *rest.Client
}

// New creates a client for the catalog at apiEndpoint.
func New(apiEndpoint string, opts ...rest.Option) (*Client, error) {
	rc, err := rest.New(apiEndpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}
	return &Client{rest: rc}, nil
}

// ListOfferings returns all marketplace offerings.
func (c *Client) ListOfferings(ctx context.Context) ([]Offering, error) {
	var offerings []Offering
	if err := c.rest.DoJSON(ctx, rest.Request{Method: http.MethodGet, Path: "/api/v3/offerings"}, &offerings); err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	return offerings, nil
}

// CreateService creates a service instance and returns it.
func (c *Client) CreateService(ctx context.Context, req CreateServiceRequest) (*Service, error) {
	if req.Type == "" {
		req.Type = "SERVICE"
	}
	data, err := c.rest.Do(ctx, rest.Request{Method: http.MethodPost, Path: "/api/v3/services", Body: req})
	if err != nil {
		return nil, fmt.Errorf("failed to create service %s: %w", req.Name, err)
	}
	return decodeService(data)
}

// GetService fetches a service instance.
func (c *Client) GetService(ctx context.Context, id string) (*Service, error) {
	data, err := c.rest.Do(ctx, rest.Request{Method: http.MethodGet, Path: servicePath(id)})
	if err != nil {
		return nil, fmt.Errorf("failed to get service %s: %w", id, err)
	}
	return decodeService(data)
}

// StopService asks the catalog to stop a service instance.
func (c *Client) StopService(ctx context.Context, id string) error {
	if _, err := c.rest.Do(ctx, rest.Request{Method: http.MethodPut, Path: servicePath(id) + "/stop"}); err != nil {
		return fmt.Errorf("failed to stop service %s: %w", id, err)
	}
	return nil
}

// DeleteService deletes a service instance.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	if _, err := c.rest.Do(ctx, rest.Request{Method: http.MethodDelete, Path: servicePath(id)}); err != nil {
		return fmt.Errorf("failed to delete service %s: %w", id, err)
	}
	return nil
}

func servicePath(id string) string {
	return "/api/v3/services/" + url.PathEscape(id)
}

func decodeService(data []byte) (*Service, error) {
	var svc Service
	if err := json.Unmarshal(data, &svc); err != nil {
		return nil, fmt.Errorf("failed to decode service: %w", err)
	}
	svc.Raw = append(json.RawMessage(nil), data...)
	return &svc, nil
}
