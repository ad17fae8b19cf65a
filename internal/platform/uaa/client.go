// Package uaa talks to the platform identity provider: it exchanges client
// credentials for access tokens and manages OAuth client registrations for
// dashboard instances.
package uaa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/imamik/gearpump-broker/internal/platform/rest"
)

const (
	callbackPath        = "/login/oauth2/cloudfoundryuaa/callback"
	accessTokenValidity = 43200
)

// Client is an identity provider client.
type Client struct {
	rest     *rest.Client
	tokenURL string
}

// New creates a client for the identity provider at endpoint. tokenURL is the
// OAuth2 token endpoint used for client-credentials exchanges.
func New(endpoint, tokenURL string, opts ...rest.Option) (*Client, error) {
	rc, err := rest.New(endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}
	if _, err := url.Parse(tokenURL); err != nil || tokenURL == "" {
		return nil, fmt.Errorf("invalid token URL %q", tokenURL)
	}
	return &Client{rest: rc, tokenURL: tokenURL}, nil
}

// CreateAccessToken exchanges client credentials for a token and returns it
// as an Authorization header value, "<token_type> <access_token>".
func (c *Client) CreateAccessToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	cfg := clientcredentials.Config{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		TokenURL:       c.tokenURL,
		AuthStyle:      oauth2.AuthStyleInHeader,
		EndpointParams: url.Values{"response_type": {"token"}},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.rest.HTTPClient())
	tok, err := cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain access token for %s: %w", clientID, err)
	}
	if tok.TokenType == "" || tok.AccessToken == "" {
		return "", errors.New("token response is missing token type or access token")
	}
	return tok.TokenType + " " + tok.AccessToken, nil
}

type oauthClient struct {
	ClientID             string   `json:"client_id"`
	Name                 string   `json:"name"`
	ClientSecret         string   `json:"client_secret"`
	Scope                []string `json:"scope"`
	ResourceIDs          []string `json:"resource_ids"`
	Authorities          []string `json:"authorities"`
	AuthorizedGrantTypes []string `json:"authorized_grant_types"`
	Autoapprove          bool     `json:"autoapprove"`
	AccessTokenValidity  int      `json:"access_token_validity"`
	RedirectURI          []string `json:"redirect_uri"`
}

// RegisterOAuthClient registers an OAuth client whose login callback points
// at redirectHost and returns the raw response body.
func (c *Client) RegisterOAuthClient(ctx context.Context, clientID, clientSecret, redirectHost, token string) (string, error) {
	body := oauthClient{
		ClientID:             clientID,
		Name:                 clientID,
		ClientSecret:         clientSecret,
		Scope:                []string{"openid", "tap.user"},
		ResourceIDs:          []string{"none"},
		Authorities:          []string{"uaa.resource"},
		AuthorizedGrantTypes: []string{"client_credentials", "authorization_code", "refresh_token"},
		Autoapprove:          true,
		AccessTokenValidity:  accessTokenValidity,
		RedirectURI:          []string{"http://" + redirectHost + callbackPath},
	}

	data, err := c.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "/oauth/clients",
		Body:   body,
		Header: rest.AuthHeader(token),
	})
	if err != nil {
		return "", fmt.Errorf("failed to register oauth client %s: %w", clientID, err)
	}
	return string(data), nil
}

// DeleteOAuthClient removes an OAuth client registration. A client that does
// not exist is treated as already deleted.
func (c *Client) DeleteOAuthClient(ctx context.Context, clientID, token string) error {
	_, err := c.rest.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   "/oauth/clients/" + url.PathEscape(clientID),
		Header: rest.AuthHeader(token),
	})
	if err != nil {
		if rest.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete oauth client %s: %w", clientID, err)
	}
	return nil
}
