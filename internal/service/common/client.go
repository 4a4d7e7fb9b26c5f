//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
)

// Client wraps http.Client with the headers and timeouts every updater request needs.
type Client struct {
	// http is the underlying transport.
	http *http.Client
	// userAgent is sent with every request.
	userAgent string
	// callTimeout bounds GetJSON and PostForm. Stream is bounded by the caller's context.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets the timeout of GetJSON and PostForm calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying http.Client, e.g. with an httptest one.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

var (
	// errBadHTTPStatus is returned for responses other than the expected status.
	errBadHTTPStatus = errors.New("unexpected http status")
	// errURLRequired is returned when an empty URL is requested.
	errURLRequired = errors.New("url must be provided")
)

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		http: new(http.Client),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetJSON fetches rawURL and decodes the JSON body into v.
// Every failure, including a non-200 status and an undecodable body, wraps release.ErrNetwork.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := c.newRequest(callCtx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.do(c.http, req)
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if err = checkStatus(resp, http.StatusOK); err != nil {
		return err
	}

	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %w", release.ErrNetwork, rawURL, err)
	}

	return nil
}

// PostForm submits form to rawURL without following redirects and returns the response headers.
// Redirect responses are what link shorteners answer with, so any status below 400 is accepted.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (http.Header, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := c.newRequest(callCtx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	noRedirect := *c.http
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := c.do(&noRedirect, req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s, %s: %w", release.ErrNetwork, rawURL, resp.Status, errBadHTTPStatus)
	}

	return resp.Header, nil
}

// Stream issues a GET and returns the response with an unread body for the caller to close.
// A non-200 status closes the body and returns an error wrapping release.ErrNetwork.
func (c *Client) Stream(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(c.http, req)
	if err != nil {
		return nil, err
	}

	if err = checkStatus(resp, http.StatusOK); err != nil {
		_ = resp.Body.Close()

		return nil, err
	}

	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	if rawURL == "" {
		return nil, errURLRequired
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

func (c *Client) do(client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", release.ErrNetwork, req.Method, req.URL.Redacted(), err)
	}

	return resp, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}

	return fmt.Errorf("%w: %s, %s: %w", release.ErrNetwork, resp.Request.URL.Redacted(), resp.Status, errBadHTTPStatus)
}
