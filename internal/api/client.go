// Package api is the REST client layer for the budgets backend. It owns
// the status-code taxonomy, bearer-token handling and silent refresh;
// everything above it works with domain types and structured errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"budgets/internal/core"
	"budgets/internal/log"
)

// expirySkew is subtracted from token lifetime so a token about to lapse
// mid-request is refreshed up front.
const expirySkew = 30 * time.Second

// CredentialStore persists the token bundle and the pending challenge key.
// The bundle must be written and read as one atomic unit.
type CredentialStore interface {
	SaveCredentials(ctx context.Context, creds core.Credentials) error
	LoadCredentials(ctx context.Context) (*core.Credentials, error)
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
}

// Client performs JSON request/response calls against the backend.
type Client struct {
	baseURL string
	http    *http.Client
	store   CredentialStore
	refresh singleflight.Group
	logger  *log.Logger
}

// NewClient creates an API client rooted at baseURL. Timeout policy lives
// in the provided http.Client; pass nil for a sensible default.
func NewClient(baseURL string, httpClient *http.Client, store CredentialStore, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAPI)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		store:   store,
		logger:  logger,
	}
}

// Response is the decoded-on-demand result of a call.
type Response struct {
	Status int
	Body   []byte
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// Err maps the response status to the error taxonomy, nil on success.
func (r *Response) Err() error {
	return errorFromStatus(r.Status, r.Body)
}

// Call performs an unauthenticated request against a resource path.
func (c *Client) Call(ctx context.Context, method, resource string, body any) (*Response, error) {
	return c.do(ctx, method, resource, body, "")
}

// CallProtected performs a request with the stored bearer token, silently
// refreshing it when expired or rejected. Concurrent callers share a
// single in-flight refresh.
func (c *Client) CallProtected(ctx context.Context, method, resource string, body any) (*Response, error) {
	creds, err := c.store.LoadCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if creds == nil {
		return nil, ErrUnauthorized
	}

	if creds.Expired(time.Now(), expirySkew) {
		if creds, err = c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.do(ctx, method, resource, body, creds.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusUnauthorized {
		return resp, nil
	}

	// Token rejected despite looking fresh; refresh once and retry.
	if creds, err = c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c.do(ctx, method, resource, body, creds.AccessToken)
}

// Refresh redeems the stored refresh token for a new bundle and persists
// it. Callers racing into a refresh are coalesced.
func (c *Client) Refresh(ctx context.Context) (*core.Credentials, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		creds, err := c.store.LoadCredentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("load credentials: %w", err)
		}
		if creds == nil || creds.RefreshToken == "" {
			return nil, ErrUnauthorized
		}

		resp, err := c.do(ctx, http.MethodPost, "auth/refresh", map[string]string{
			"refreshToken": creds.RefreshToken,
		}, "")
		if err != nil {
			return nil, err
		}
		if err := resp.Err(); err != nil {
			return nil, err
		}

		var body authResponseBody
		if err := resp.JSON(&body); err != nil {
			return nil, fmt.Errorf("decode refresh response: %w", err)
		}
		fresh := body.credentials()
		if err := c.store.SaveCredentials(ctx, fresh); err != nil {
			return nil, fmt.Errorf("save credentials: %w", err)
		}
		c.logger.DebugContext(ctx, "Refreshed access token", "expires_at", fresh.ExpiresAt)
		return &fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Credentials), nil
}

func (c *Client) do(ctx context.Context, method, resource string, body any, bearer string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(resource, "/"), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s %s: %w", method, resource, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.DebugContext(ctx, "API call",
		log.FieldMethod, method,
		log.FieldPath, resource,
		log.FieldStatusCode, resp.StatusCode)

	return &Response{Status: resp.StatusCode, Body: raw}, nil
}
