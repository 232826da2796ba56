package model

import "time"

// Reservation is a user's claim on a set of seats for one showtime.
// Reservations are never mutated in place by the client; cancellation
// removes the whole record.
//
// Fields:
//
//	ID            – backend identifier.
//	UserID        – owning user.
//	ShowtimeID    – showtime the seats belong to.
//	AmountCharged – total the backend charged.
//	AmountPaid    – amount the user paid.
//	ReservedSeats – the individual seat claims.
//	Payment       – charged/paid/balance summary.
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	ShowtimeID    string         `json:"showtimeId"`
	AmountCharged float64        `json:"amountCharged"`
	AmountPaid    float64        `json:"amountPaid"`
	ReservedSeats []ReservedSeat `json:"reservedSeats"`
	Payment       Payment        `json:"payment"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ReservedSeat links a reservation to one seat of the auditorium.
type ReservedSeat struct {
	ID     string `json:"id"`
	SeatID string `json:"seatId"`
}

// Payment summarises the money side of a reservation.  Only the
// balance figure is modelled; payment processing itself happens
// entirely on the backend.
type Payment struct {
	AmountCharged float64 `json:"amountCharged"`
	AmountPaid    float64 `json:"amountPaid"`
	Balance       float64 `json:"balance"`
}
