package auth

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cinefront/cinefront/internal/gateway"
	"github.com/cinefront/cinefront/internal/model"
	"github.com/cinefront/cinefront/internal/session"
)

// refreshCookieName is the name of the httpOnly cookie the backend
// uses as the refresh marker.
const refreshCookieName = "refreshToken"

// Service bundles the account operations.  Sign-up and sign-in go
// through the gateway's public path (a 401 there is a credential
// problem, not an expired session); sign-out and delete-account are
// authenticated calls followed by local cleanup that must succeed
// even when the backend call does not.
type Service struct {
	gw     *gateway.Client
	store  *session.Store
	jar    http.CookieJar
	apiURL *url.URL
	log    *logrus.Entry
}

// NewService returns an auth Service.  jar and apiURL are used for
// the best-effort local purge of the refresh cookie; jar may be nil
// when the transport has no jar (tests).
func NewService(gw *gateway.Client, store *session.Store, jar http.CookieJar, apiBaseURL string, log *logrus.Logger) (*Service, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	u, err := url.Parse(apiBaseURL)
	if err != nil {
		return nil, err
	}
	return &Service{
		gw:     gw,
		store:  store,
		jar:    jar,
		apiURL: u,
		log:    log.WithField("component", "auth.service"),
	}, nil
}

// SignUp creates an account and signs the session in.  The returned
// user is also stored, paired atomically with the new credential.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*model.User, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var resp sessionResponse
	if err := s.gw.DoPublic(ctx, http.MethodPost, "/auth/sign-up", input, &resp); err != nil {
		return nil, err
	}
	s.store.SetSession(resp.AccessToken, &resp.User)
	return &resp.User, nil
}

// SignIn authenticates and populates the session store.
func (s *Service) SignIn(ctx context.Context, input SignInInput) (*model.User, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var resp sessionResponse
	if err := s.gw.DoPublic(ctx, http.MethodPost, "/auth/sign-in", input, &resp); err != nil {
		return nil, err
	}
	s.store.SetSession(resp.AccessToken, &resp.User)
	return &resp.User, nil
}

// SignOut tells the backend to invalidate the refresh marker, then
// unconditionally clears the local session and purges the cookie from
// the jar.  The local cleanup runs even when the backend call fails:
// the user asked to be signed out and must end up signed out.
func (s *Service) SignOut(ctx context.Context) error {
	err := s.gw.Do(ctx, http.MethodPost, "/auth/sign-out", nil, nil)
	s.store.ClearSession()
	s.ClearRefreshCookie()
	return err
}

// DeleteAccount removes the account server-side and performs the same
// local cleanup as SignOut.
func (s *Service) DeleteAccount(ctx context.Context) error {
	err := s.gw.Do(ctx, http.MethodPost, "/auth/delete-account", nil, nil)
	s.store.ClearSession()
	s.ClearRefreshCookie()
	return err
}

// ForgotPassword requests a reset email.  The backend answers with a
// generic success regardless of whether the address exists, to avoid
// account enumeration; this method mirrors that contract.
func (s *Service) ForgotPassword(ctx context.Context, input ForgotPasswordInput) error {
	if err := checkInput(input); err != nil {
		return err
	}
	return s.gw.DoPublic(ctx, http.MethodPost, "/auth/forgot-password", input, nil)
}

// ResetPassword completes a reset using the token from the email.
func (s *Service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if err := checkInput(input); err != nil {
		return err
	}
	return s.gw.DoPublic(ctx, http.MethodPost, "/auth/reset-password", input, nil)
}

// ClearRefreshCookie drops the refresh marker from the cookie jar by
// overwriting it with an already-expired cookie.  This is the
// best-effort cleanup step behind the local clear-cookie endpoint:
// it can never fail in a way that blocks sign-out, and the marker
// itself is server-owned — this only stops the client presenting it.
func (s *Service) ClearRefreshCookie() {
	if s.jar == nil {
		return
	}
	s.jar.SetCookies(s.apiURL, []*http.Cookie{{
		Name:    refreshCookieName,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	}})
}
