// Package yarn is a client for the YARN ResourceManager REST API.
package yarn

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/imamik/gearpump-broker/internal/platform/rest"
)

// StateKilled is the target state of KillApplication.
const StateKilled = "KILLED"

// Client talks to a ResourceManager.
type Client struct {
	rest *rest.Client
}

// New creates a client for the ResourceManager at endpoint.
func New(endpoint string, opts ...rest.Option) (*Client, error) {
	rc, err := rest.New(endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource manager client: %w", err)
	}
	return &Client{rest: rc}, nil
}

type appState struct {
	State string `json:"state"`
}

// KillApplication moves the application to the KILLED state.
func (c *Client) KillApplication(ctx context.Context, id ApplicationID) error {
	_, err := c.rest.Do(ctx, rest.Request{
		Method: http.MethodPut,
		Path:   appStatePath(id),
		Body:   appState{State: StateKilled},
	})
	if err != nil {
		return fmt.Errorf("failed to kill application %s: %w", id, err)
	}
	return nil
}

// ApplicationState returns the current state of the application.
func (c *Client) ApplicationState(ctx context.Context, id ApplicationID) (string, error) {
	var st appState
	if err := c.rest.DoJSON(ctx, rest.Request{Method: http.MethodGet, Path: appStatePath(id)}, &st); err != nil {
		return "", fmt.Errorf("failed to get state of application %s: %w", id, err)
	}
	return st.State, nil
}

func appStatePath(id ApplicationID) string {
	return "/ws/v1/cluster/apps/" + url.PathEscape(id.String()) + "/state"
}
