package repository

import "github.com/cinefront/cinefront/internal/model"

// Derived, read-only views over showtime data.  These are pure
// functions of their input so they can be applied to cached copies
// without locking.

// AvailableSeats is the auditorium capacity minus every seat claimed
// by any reservation on the showtime, regardless of owner.  The
// backend keeps reserved seat sets disjoint, so the sum never exceeds
// capacity; the max(0) clamp guards against transiently inconsistent
// payloads rather than trusting them.
func AvailableSeats(s model.Showtime) int {
	taken := 0
	for _, res := range s.Reservations {
		taken += len(res.ReservedSeats)
	}
	if avail := s.Auditorium.Capacity - taken; avail > 0 {
		return avail
	}
	return 0
}

// ReservedSeatIDs collects the seat ids claimed by all reservations
// on the showtime.  Any seat in this set is unavailable to the
// current user no matter who booked it.
func ReservedSeatIDs(s model.Showtime) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, res := range s.Reservations {
		for _, seat := range res.ReservedSeats {
			ids[seat.SeatID] = struct{}{}
		}
	}
	return ids
}

// UserReservations returns the subset of the showtime's reservations
// owned by the given user, in backend order.
func UserReservations(s model.Showtime, userID string) []model.Reservation {
	if userID == "" {
		return nil
	}
	var out []model.Reservation
	for _, res := range s.Reservations {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out
}

// HasUserReservation reports whether the user holds at least one
// reservation on the showtime.
func HasUserReservation(s model.Showtime, userID string) bool {
	return len(UserReservations(s, userID)) > 0
}
