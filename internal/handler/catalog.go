package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/cinefront/internal/catalog"
)

// CatalogHandler serves the external movie catalog through the front
// door.  Catalog reads never depend on the user session.
type CatalogHandler struct {
	Catalog *catalog.Client
}

func NewCatalogHandler(c *catalog.Client) *CatalogHandler {
	return &CatalogHandler{Catalog: c}
}

// Movies returns the complete movie list, or fails as a whole — the
// catalog client never yields a partial catalog.
func (h *CatalogHandler) Movies(c echo.Context) error {
	movies, err := h.Catalog.FetchMovies(c.Request().Context())
	if err != nil {
		return respondCatalogError(c, err, "Failed to fetch movies")
	}
	return c.JSON(http.StatusOK, movies)
}

// Genres returns the genre list.
func (h *CatalogHandler) Genres(c echo.Context) error {
	genres, err := h.Catalog.FetchGenres(c.Request().Context())
	if err != nil {
		return respondCatalogError(c, err, "Failed to fetch genres")
	}
	return c.JSON(http.StatusOK, genres)
}

func respondCatalogError(c echo.Context, err error, fallback string) error {
	var serr *catalog.StatusError
	if errors.As(err, &serr) {
		msg := serr.StatusMessage
		if msg == "" {
			msg = fallback
		}
		return c.JSON(serr.StatusCode, echo.Map{"message": msg})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"message": fallback})
}
