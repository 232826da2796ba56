// Package session holds the in-memory authenticated session: the
// short-lived access credential and the identity it belongs to.
// Nothing here touches the network or any storage; the refresh marker
// that mints new credentials is an httpOnly cookie owned by the
// backend and never visible to this package.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinefront/cinefront/internal/model"
)

// Store guards the access token and user identity behind one mutex so
// the pair can be read and replaced atomically.  It is safe for
// concurrent use and intentionally free of any subscription
// machinery: the gateway reads it synchronously from inside its
// request path, outside any UI update cycle.
type Store struct {
	mu          sync.RWMutex
	accessToken string
	user        *model.User
}

// NewStore returns an empty, signed-out store.
func NewStore() *Store { return &Store{} }

// AccessToken returns the current bearer token, or "" when signed out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// User returns a copy of the current identity, or nil when signed out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetSession replaces token and identity together.  Sign-in, refresh
// and sign-out all go through here (or ClearSession) so a reader can
// never observe a token without its identity or vice versa.
func (s *Store) SetSession(accessToken string, user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// ClearSession drops both token and identity atomically.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.user = nil
}

// SetAccessToken replaces only the token.  Normal flows keep token
// and identity paired via SetSession; this exists for callers that
// legitimately need to touch one half.
func (s *Store) SetAccessToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
}

// SetUser replaces only the identity.
func (s *Store) SetUser(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// Authenticated reports whether both halves of the session are set.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != "" && s.user != nil
}

// TokenClaims describes what the client can read out of its own
// access token.  The token is parsed without signature verification:
// validating it is the backend's job, the client only introspects
// expiry and subject for display and diagnostics.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims parses the currently held access token.  Returns ok=false
// when no token is held or it is not a well-formed JWT.
func (s *Store) Claims() (TokenClaims, bool) {
	raw := s.AccessToken()
	if raw == "" {
		return TokenClaims{}, false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return TokenClaims{}, false
	}
	out := TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}

// TokenExpired reports whether the held token is past its exp claim
// at the given instant.  A missing or unparsable token counts as
// expired; a token without an exp claim does not.
func (s *Store) TokenExpired(now time.Time) bool {
	claims, ok := s.Claims()
	if !ok {
		return true
	}
	if claims.ExpiresAt.IsZero() {
		return false
	}
	return now.After(claims.ExpiresAt)
}
