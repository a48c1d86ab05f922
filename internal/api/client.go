// Package api is the client side of the todo REST API.
//
// Todos and labels are scoped: every call names the acting user's id and
// refuses to run without one. Responses are decoded exactly as the server
// sent them. Nothing is cached and nothing is retried; a failed call is
// reported to the caller as a *RequestFailedError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultBaseURL is where the development backend listens.
const DefaultBaseURL = "http://localhost:3000"

// ErrNoScope is returned by scoped calls made without a user id.
var ErrNoScope = errors.New("api: request has no user scope")

// RequestFailedError reports a call that did not get a 2xx answer.
// StatusCode is 0 when the request never got a response.
type RequestFailedError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestFailedError) Error() string {
	return e.Op + " request failed"
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// Client talks to one API base address.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q: want http(s)://host[:port]", baseURL)
	}
	c := &Client{
		base:   u,
		http:   http.DefaultClient,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Todos returns the todo calls.
func (c *Client) Todos() *TodoService { return &TodoService{c: c} }

// Labels returns the label calls.
func (c *Client) Labels() *LabelService { return &LabelService{c: c} }

// Users returns the user calls.
func (c *Client) Users() *UserService { return &UserService{c: c} }

func scope(userID int) (url.Values, error) {
	if userID <= 0 {
		return nil, ErrNoScope
	}
	return url.Values{"user_id": {strconv.Itoa(userID)}}, nil
}

// do sends one request. body is JSON-encoded when non-nil and out is
// decoded from the response when non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	// path arrives escaped; keep it that way so names with "/" survive
	u := *c.base
	u.RawPath = c.base.EscapedPath() + path
	u.Path, _ = url.PathUnescape(u.RawPath)
	u.RawQuery = query.Encode()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request error", "op", op, "method", method, "path", path, "request_id", reqID, "error", err)
		return &RequestFailedError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "op", op, "method", method, "path", path,
		"user_id", query.Get("user_id"), "status", resp.StatusCode, "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &RequestFailedError{Op: op, StatusCode: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestFailedError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
