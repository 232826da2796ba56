// Package auth owns the authentication flows of the client: the
// single-flight credential refresh coordinator and the sign-up /
// sign-in / sign-out / password operations.  The refresh marker that
// backs all of this is an httpOnly cookie; application code never
// reads its value, the shared cookie jar sends it automatically.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/cinefront/cinefront/internal/gateway"
	"github.com/cinefront/cinefront/internal/model"
	"github.com/cinefront/cinefront/internal/session"
)

// Coordinator converts the refresh marker into a fresh access
// credential and identity pair.  At most one refresh HTTP call is in
// flight at any time: concurrent callers (startup, plus every request
// the gateway intercepted on a 401) queue on the singleflight group
// and share the one outcome, so no request is ever replayed with a
// stale credential.
type Coordinator struct {
	baseURL    string
	http       *http.Client
	store      *session.Store
	group      singleflight.Group
	refreshing atomic.Bool
	log        *logrus.Entry
}

// NewCoordinator returns a Coordinator for the backend at baseURL.
// httpClient must share its cookie jar with the gateway client so the
// refresh marker set at sign-in is available here.
func NewCoordinator(baseURL string, httpClient *http.Client, store *session.Store, log *logrus.Logger) *Coordinator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Coordinator{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		store:   store,
		log:     log.WithField("component", "auth.coordinator"),
	}
}

// Refresh exchanges the refresh marker for a new (credential,
// identity) pair.  On success the session store is populated and the
// new token returned; on failure the store is cleared — a failed
// refresh means "not authenticated", not a fatal condition.  Callers
// arriving while an exchange is in flight block until it settles and
// share its result.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	token, err, _ := c.group.Do("refresh", func() (any, error) {
		c.refreshing.Store(true)
		defer c.refreshing.Store(false)

		resp, err := c.callRefresh(ctx)
		if err != nil {
			c.store.ClearSession()
			return nil, err
		}
		c.store.SetSession(resp.AccessToken, &resp.User)
		c.log.Debug("access credential refreshed")
		return resp.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// RefreshOnStart runs the mandatory startup refresh.  The access
// credential lives only in memory, so every process start begins
// signed out until this settles.  Failure is swallowed: it degrades
// the session to signed-out and must never surface as an error.
func (c *Coordinator) RefreshOnStart(ctx context.Context) {
	if _, err := c.Refresh(ctx); err != nil {
		c.log.WithError(err).Warn("startup refresh failed, continuing signed out")
	}
}

// IsRefreshing reports whether a refresh exchange is currently in
// flight.  The presentation layer polls it to defer rendering
// auth-dependent UI, preventing a flash of signed-out state.
func (c *Coordinator) IsRefreshing() bool { return c.refreshing.Load() }

// sessionResponse is the {accessToken, user} body shared by the
// refresh, sign-in and sign-up endpoints.
type sessionResponse struct {
	AccessToken string     `json:"accessToken"`
	User        model.User `json:"user"`
}

// callRefresh performs the raw POST /auth/refresh.  It deliberately
// bypasses the gateway: the refresh endpoint authenticates by cookie,
// and routing it through the 401 interceptor would have a failing
// refresh queue behind itself.
func (c *Coordinator) callRefresh(ctx context.Context) (sessionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", nil)
	if err != nil {
		return sessionResponse{}, fmt.Errorf("building refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return sessionResponse{}, fmt.Errorf("POST /auth/refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &gateway.APIError{StatusCode: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
			apiErr.Message = body.Message
		}
		return sessionResponse{}, apiErr
	}

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return sessionResponse{}, fmt.Errorf("decoding refresh response: %w", err)
	}
	return out, nil
}
