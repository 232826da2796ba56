// Package gateway is the single channel through which the client
// talks to the reservation backend.  It attaches the current access
// credential to every request, detects authorization expiry, hands
// recovery to the refresh coordinator and replays the failed request
// exactly once with the new credential.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cinefront/cinefront/internal/session"
)

// Refresher exchanges the httpOnly refresh marker for a new access
// credential.  Implementations must be single-flight: concurrent
// callers share one in-flight exchange and its outcome.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Client performs authenticated JSON round-trips against the
// reservation backend.  The embedded http.Client's cookie jar carries
// the refresh marker; the session store supplies the bearer token
// synchronously per request.
type Client struct {
	baseURL       string
	http          *http.Client
	store         *session.Store
	refresher     Refresher
	onAuthExpired func()
	log           *logrus.Entry
}

// Option customises a Client.
type Option func(*Client)

// WithAuthExpiredHook installs a callback invoked after a credential
// refresh fails on an intercepted 401.  The presentation layer uses
// it to redirect to sign-in; it is expected to suppress the redirect
// when an auth page is already active.
func WithAuthExpiredHook(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log.WithField("component", "gateway") }
}

// New returns a Client for the backend at baseURL.  httpClient is
// shared with the refresh coordinator so both see the same cookie
// jar; refresher may be nil for clients that never recover from 401s
// (tests, public-only use).
func New(baseURL string, httpClient *http.Client, store *session.Store, refresher Refresher, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		store:     store,
		refresher: refresher,
		log:       logrus.StandardLogger().WithField("component", "gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an authenticated request with 401 recovery.  On a 401
// it asks the refresher for a fresh credential (concurrent failers
// queue inside the refresher and share the single exchange) and
// replays the request exactly once; a second 401 propagates as a
// final error.  Non-401 failures propagate unchanged with no side
// effects.  out, when non-nil, receives the decoded 2xx JSON body.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	err := c.roundTrip(ctx, method, path, body, out, c.store.AccessToken())
	if err == nil || !IsStatus(err, http.StatusUnauthorized) || c.refresher == nil {
		return err
	}

	token, refreshErr := c.refresher.Refresh(ctx)
	if refreshErr != nil {
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).
			Warn("credential refresh failed, session is signed out")
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return fmt.Errorf("refreshing credentials: %w", refreshErr)
	}
	return c.roundTrip(ctx, method, path, body, out, token)
}

// DoPublic performs a request without 401 interception.  Sign-in,
// sign-up and the password flows use it: a 401 there means bad
// credentials, not an expired session, and must never trigger a
// refresh or redirect.  A held bearer token is still attached when
// present since its absence is not an error for public endpoints.
func (c *Client) DoPublic(ctx context.Context, method, path string, body, out any) error {
	return c.roundTrip(ctx, method, path, body, out, c.store.AccessToken())
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any, token string) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": req.Header.Get("X-Request-ID"),
	}).Debug("backend round trip")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// decodeAPIError turns a non-2xx response into an *APIError, pulling
// the backend's {"message": ...} body when present.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
