package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/cinefront/internal/auth"
	"github.com/cinefront/cinefront/internal/session"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Svc   *auth.Service
	Coord *auth.Coordinator
	Store *session.Store
}

func NewAuthHandler(svc *auth.Service, coord *auth.Coordinator, store *session.Store) *AuthHandler {
	return &AuthHandler{Svc: svc, Coord: coord, Store: store}
}

// SignUp creates an account and signs the session in.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var input auth.SignUpInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	user, err := h.Svc.SignUp(c.Request().Context(), input)
	if err != nil {
		return respondAuthError(c, err, "Failed to sign up")
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": user})
}

// SignIn authenticates and populates the session.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var input auth.SignInInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	user, err := h.Svc.SignIn(c.Request().Context(), input)
	if err != nil {
		return respondAuthError(c, err, "Failed to sign in")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// SignOut ends the session.  The local session is cleared even when
// the backend call failed, so the response is 204 either way unless
// the caller needs the error detail.
func (h *AuthHandler) SignOut(c echo.Context) error {
	if err := h.Svc.SignOut(c.Request().Context()); err != nil {
		return respondAuthError(c, err, "Failed to sign out")
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount removes the account and ends the session.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	if err := h.Svc.DeleteAccount(c.Request().Context()); err != nil {
		return respondAuthError(c, err, "Failed to delete account")
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword requests a reset email.  The response is the same
// generic success whether or not the address exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var input auth.ForgotPasswordInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := h.Svc.ForgotPassword(c.Request().Context(), input); err != nil {
		return respondAuthError(c, err, "Failed to request password reset")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "If the email exists, a reset link has been sent"})
}

// ResetPassword completes a reset with the emailed token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var input auth.ResetPasswordInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := h.Svc.ResetPassword(c.Request().Context(), input); err != nil {
		return respondAuthError(c, err, "Failed to reset password")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset"})
}

// Session reports the current identity and whether a credential
// refresh is in flight.  The UI defers rendering auth-dependent
// chrome while isRefreshing is true, which is what prevents the
// flash of signed-out state on startup.
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user":          h.Store.User(),
		"authenticated": h.Store.Authenticated(),
		"isRefreshing":  h.Coord.IsRefreshing(),
	})
}

// ClearCookie drops the refresh marker from the cookie jar.  This is
// a best-effort cleanup helper: it always reports success, and its
// failure modes (no jar, cookie already gone) are not the caller's
// problem.
func (h *AuthHandler) ClearCookie(c echo.Context) error {
	h.Svc.ClearRefreshCookie()
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// respondAuthError distinguishes local validation failures (never
// sent to the network) from backend rejections.
func respondAuthError(c echo.Context, err error, fallback string) error {
	switch err {
	case auth.ErrInvalidEmail, auth.ErrWeakPassword, auth.ErrNameRequired, auth.ErrTokenRequired:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return respondError(c, err, fallback)
}
