package repository

import "errors"

// Advisory client-side precondition failures.  The backend is the
// authority on all of them; these exist so obviously invalid intents
// are rejected without a round trip.
var (
	ErrNoSeatsSelected     = errors.New("at least one seat must be selected")
	ErrDuplicateSeats      = errors.New("duplicate seat in selection")
	ErrSeatAlreadyReserved = errors.New("seat is already reserved")
	ErrAmountBelowTotal    = errors.New("amount paid is below the seat total")
	ErrShowtimeNotFound    = errors.New("showtime not found")
	ErrReservationNotFound = errors.New("reservation not found")
)
