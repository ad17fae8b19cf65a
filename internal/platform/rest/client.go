// Package rest provides the JSON-over-HTTP caller shared by the catalog,
// identity and YARN ResourceManager clients.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-cleanhttp"
)

// maxBodySize caps how much of a response is read into memory.
const maxBodySize = 4 << 20

// Client performs requests against one backend base URL.
type Client struct {
	http    *http.Client
	baseURL string
	log     logr.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log logr.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewHTTPClient returns a pooled HTTP client with the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return hc
}

// New creates a client for baseURL, which must be an absolute URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Client{
		http:    cleanhttp.DefaultPooledClient(),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Request describes a single call.
type Request struct {
	Method string
	// Path is appended to the base URL. Callers escape dynamic segments.
	Path string
	// Body is JSON-encoded when non-nil.
	Body   any
	Header http.Header
}

// Do sends req and returns the response body. Responses outside the 2xx
// range are returned as *StatusError.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	target := c.baseURL + req.Path

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s %s: %w", req.Method, target, err)
	}

	c.log.V(2).Info("http call", "method", req.Method, "url", target, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}
	return data, nil
}

// DoJSON sends req and decodes a JSON response into out.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	data, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", req.Method, c.baseURL+req.Path, err)
	}
	return nil
}

// AuthHeader returns a header carrying the given Authorization value.
func AuthHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", token)
	return h
}
