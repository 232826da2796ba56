package handler // HTTP handlers for the local front door

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/cinefront/internal/gateway"
	"github.com/cinefront/cinefront/internal/repository"
)

// respondError maps a core error onto the front door's JSON error
// shape.  Backend rejections keep their status and server-provided
// message (with the operation's generic fallback); local validation
// failures become 400s; anything else is a 502 — the failure happened
// between this client and a backend, not inside the client.
func respondError(c echo.Context, err error, fallback string) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.StatusCode, echo.Map{"message": gateway.MessageOr(err, fallback)})
	}
	if isValidationError(err) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"message": fallback})
}

func isValidationError(err error) bool {
	for _, known := range []error{
		repository.ErrNoSeatsSelected,
		repository.ErrDuplicateSeats,
		repository.ErrSeatAlreadyReserved,
		repository.ErrAmountBelowTotal,
		repository.ErrShowtimeNotFound,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
