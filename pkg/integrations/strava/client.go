// Package strava is an API client for the Strava OAuth and REST dialect.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	httputil "github.com/versionsup/server/pkg/infrastructure/http"
)

const (
	oauthBaseURL = "https://www.strava.com/oauth"
	apiBaseURL   = "https://www.strava.com/api/v3"

	// Strava scopes are comma-separated inside a single scope value.
	scopeReadAllActivities = "read,activity:read_all"
)

// Activity is a provider-defined record passed through verbatim. The
// service never interprets its shape beyond rendering it to text.
type Activity map[string]interface{}

// TokenPair is the result of an authorization-code exchange.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // epoch seconds
}

// Error wraps any failure talking to Strava.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("strava: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Client is a stateless API client for Strava.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string

	oauthBase string
	apiBase   string
	client    *http.Client
}

// NewClient creates a new Strava API client. The 30s timeout bounds every
// outbound call; Strava itself defines no contract here.
func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		oauthBase:    oauthBaseURL,
		apiBase:      apiBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  c.redirectURI,
		Scopes:       []string{scopeReadAllActivities},
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.oauthBase + "/authorize",
			TokenURL: c.oauthBase + "/token",
			// Strava wants client_id/client_secret in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthorizationURL builds the OAuth authorization redirect URL. Pure string
// construction; never fails.
func (c *Client) AuthorizationURL() string {
	return c.oauthConfig().AuthCodeURL("",
		oauth2.SetAuthURLParam("approval_prompt", "auto"),
	)
}

// ExchangeCode exchanges an authorization code for a token pair. One POST,
// no retries. Any transport failure or non-success status is an *Error.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenPair, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)
	tok, err := c.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, &Error{Op: "exchange code", Err: err}
	}

	pair := &TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	// Strava includes an absolute expires_at in the token payload; prefer
	// it over the derived expiry so the stored value matches the provider.
	if v, ok := tok.Extra("expires_at").(float64); ok {
		pair.ExpiresAt = int64(v)
	} else if !tok.Expiry.IsZero() {
		pair.ExpiresAt = tok.Expiry.Unix()
	}
	return pair, nil
}

// FetchActivities fetches the first page of the athlete's activities. There
// is no pagination beyond page 1: longer histories are truncated.
func (c *Client) FetchActivities(ctx context.Context, accessToken string, perPage int) ([]Activity, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/athlete/activities?"+q.Encode(), nil)
	if err != nil {
		return nil, &Error{Op: "fetch activities", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Op: "fetch activities", Err: err}
	}
	defer resp.Body.Close()

	if err := httputil.CheckResponse(resp); err != nil {
		return nil, &Error{Op: "fetch activities", Err: err}
	}

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, &Error{Op: "decode activities", Err: err}
	}
	return activities, nil
}
