// Package router wires the front-door routes onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinefront/cinefront/internal/handler"
)

// RegisterRoutes registers the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth surface: account operations under
// /api/auth plus the session snapshot and the local clear-cookie
// helper the sign-out flow uses as best-effort cleanup.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/sign-up", a.SignUp)
	g.POST("/sign-in", a.SignIn)
	g.POST("/sign-out", a.SignOut)
	g.POST("/delete-account", a.DeleteAccount)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)
	g.POST("/clear-cookie", a.ClearCookie)

	e.GET("/api/session", a.Session)
}

// RegisterCatalog registers the read-only movie catalog routes.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler) {
	e.GET("/api/movies", h.Movies)
	e.GET("/api/genres", h.Genres)
}

// RegisterShowtimes registers the showtime listing and the two
// reservation mutations.
func RegisterShowtimes(e *echo.Echo, h *handler.ShowtimeHandler) {
	e.GET("/api/showtimes", h.List)
	e.GET("/api/showtimes/upcoming", h.Upcoming)
	e.POST("/api/reservations", h.CreateReservation)
	e.POST("/api/reservations/:id/cancel", h.CancelReservation)
}
