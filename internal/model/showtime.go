package model

import "time"

// Showtime is a scheduled screening of a catalog movie in a specific
// auditorium.  The backend guarantees StartTime < EndTime and
// Price >= 0.  Reservations carries every existing reservation for
// the showtime regardless of owner; any seat referenced by one of
// them is unavailable to this client.
//
// Fields:
//
//	ID             – backend identifier.
//	StartTime      – when the screening begins.
//	EndTime        – when the screening ends.
//	Price          – per-seat price in dollars.
//	CatalogMovieID – id of the movie in the external catalog.
//	Auditorium     – room and seat map.
//	Reservations   – all current reservations, all users.
type Showtime struct {
	ID             string        `json:"id"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        time.Time     `json:"endTime"`
	Price          float64       `json:"price"`
	CatalogMovieID int64         `json:"catalogMovieId"`
	Auditorium     Auditorium    `json:"auditorium"`
	Reservations   []Reservation `json:"reservations"`
}
