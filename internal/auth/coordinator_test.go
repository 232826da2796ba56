package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefront/cinefront/internal/gateway"
	"github.com/cinefront/cinefront/internal/model"
	"github.com/cinefront/cinefront/internal/session"
)

func refreshBackend(t *testing.T, calls *atomic.Int64, delay time.Duration, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/refresh", r.URL.Path)
		calls.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"message": "refresh token invalid"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "fresh-token",
			"user":        model.User{ID: "u1", Email: "ada@example.com"},
		})
	}))
}

func TestRefreshPopulatesSession(t *testing.T) {
	var calls atomic.Int64
	srv := refreshBackend(t, &calls, 0, http.StatusOK)
	defer srv.Close()

	store := session.NewStore()
	coord := NewCoordinator(srv.URL, srv.Client(), store, nil)

	token, err := coord.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.True(t, store.Authenticated())
	require.NotNil(t, store.User())
	assert.Equal(t, "u1", store.User().ID)
}

func TestRefreshFailureClearsSession(t *testing.T) {
	var calls atomic.Int64
	srv := refreshBackend(t, &calls, 0, http.StatusUnauthorized)
	defer srv.Close()

	store := session.NewStore()
	store.SetSession("stale", &model.User{ID: "u1"})
	coord := NewCoordinator(srv.URL, srv.Client(), store, nil)

	_, err := coord.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, gateway.IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "refresh token invalid", gateway.MessageOr(err, "fallback"))

	// Failure means "not authenticated", and the store must say so.
	assert.False(t, store.Authenticated())
	assert.Empty(t, store.AccessToken())
	assert.Nil(t, store.User())
}

func TestRefreshIsSingleFlight(t *testing.T) {
	var calls atomic.Int64
	srv := refreshBackend(t, &calls, 100*time.Millisecond, http.StatusOK)
	defer srv.Close()

	store := session.NewStore()
	coord := NewCoordinator(srv.URL, srv.Client(), store, nil)

	const n = 10
	var wg sync.WaitGroup
	tokens := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = coord.Refresh(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent callers must share one refresh HTTP call")
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "fresh-token", tokens[i])
	}
}

func TestRefreshSingleFlightSharesFailure(t *testing.T) {
	var calls atomic.Int64
	srv := refreshBackend(t, &calls, 100*time.Millisecond, http.StatusUnauthorized)
	defer srv.Close()

	store := session.NewStore()
	coord := NewCoordinator(srv.URL, srv.Client(), store, nil)

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coord.Refresh(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for i := 0; i < n; i++ {
		assert.Error(t, errs[i], "every queued caller fails with the shared refresh error")
	}
}

func TestRefreshOnStartSwallowsFailure(t *testing.T) {
	var calls atomic.Int64
	srv := refreshBackend(t, &calls, 0, http.StatusUnauthorized)
	defer srv.Close()

	store := session.NewStore()
	coord := NewCoordinator(srv.URL, srv.Client(), store, nil)

	// Must not panic or surface an error: startup degrades to signed out.
	coord.RefreshOnStart(context.Background())
	assert.False(t, store.Authenticated())
	assert.False(t, coord.IsRefreshing())
}
