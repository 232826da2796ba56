// Package repository holds the client-side cache of showtimes and the
// two legal write paths against it.  The cache is the one piece of
// shared mutable state in the client; every other component reads
// derived views of it and mutates it only through Create and Cancel.
package repository

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/singleflight"

	"github.com/cinefront/cinefront/internal/gateway"
	"github.com/cinefront/cinefront/internal/model"
)

// ShowtimeRepo caches the backend's showtime list — each showtime
// carrying its auditorium seat map and all current reservations — and
// reconciles it after mutations.  Creation invalidates and refetches
// the whole list (the only way to be consistent with concurrent
// bookings by other users); cancellation prunes the one reservation
// locally, since cancelling our own claim cannot race with anyone
// else's data.
type ShowtimeRepo struct {
	gw *gateway.Client

	mu        sync.RWMutex
	showtimes []model.Showtime
	loaded    bool

	group singleflight.Group
}

// NewShowtimeRepo returns a repository backed by the given gateway.
func NewShowtimeRepo(gw *gateway.Client) *ShowtimeRepo {
	return &ShowtimeRepo{gw: gw}
}

// List returns the showtime list, fetching it at most once until the
// cache is invalidated.  Concurrent callers share a single in-flight
// fetch.  The returned slice is a deep copy: callers can never alias
// the cache.
func (r *ShowtimeRepo) List(ctx context.Context) ([]model.Showtime, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return deepCopy(r.showtimes)
	}
	r.mu.RUnlock()

	_, err, _ := r.group.Do("showtimes", func() (any, error) {
		var fetched []model.Showtime
		if err := r.gw.Do(ctx, http.MethodGet, "/showtimes", nil, &fetched); err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.showtimes = fetched
		r.loaded = true
		r.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return deepCopy(r.showtimes)
}

// Invalidate drops the cache so the next List refetches.
func (r *ShowtimeRepo) Invalidate() {
	r.mu.Lock()
	r.showtimes = nil
	r.loaded = false
	r.mu.Unlock()
}

// ShowtimeByID returns a copy of one cached showtime.  The cache must
// already be loaded (List has run); an unknown or unloaded id yields
// ErrShowtimeNotFound.
func (r *ShowtimeRepo) ShowtimeByID(id string) (*model.Showtime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.showtimes {
		if r.showtimes[i].ID == id {
			var out model.Showtime
			if err := copier.CopyWithOption(&out, &r.showtimes[i], copier.Option{DeepCopy: true}); err != nil {
				return nil, err
			}
			return &out, nil
		}
	}
	return nil, ErrShowtimeNotFound
}

// createReservationRequest is the wire form of a reservation intent.
type createReservationRequest struct {
	ShowtimeID string   `json:"showtimeId"`
	SeatIDs    []string `json:"seatIds"`
	AmountPaid float64  `json:"amountPaid"`
}

// Create submits a reservation intent for the given showtime.  The
// client-side preconditions are advisory — the server remains the
// authority — but they catch intents that cannot possibly succeed:
// empty or duplicated seat selections, seats already present in any
// known reservation, and a paid amount under seats × price.
//
// On success the whole showtime list is invalidated and refetched so
// the new reservation and any concurrent bookings by other users are
// both reflected; on failure the cache is left untouched.
func (r *ShowtimeRepo) Create(ctx context.Context, showtimeID string, seatIDs []string, amountPaid float64) (*model.Reservation, error) {
	if len(seatIDs) == 0 {
		return nil, ErrNoSeatsSelected
	}
	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeats, id)
		}
		seen[id] = struct{}{}
	}

	showtime, err := r.ShowtimeByID(showtimeID)
	if err != nil {
		return nil, err
	}
	reserved := ReservedSeatIDs(*showtime)
	for _, id := range seatIDs {
		if _, taken := reserved[id]; taken {
			return nil, fmt.Errorf("%w: %s", ErrSeatAlreadyReserved, id)
		}
	}
	if amountPaid < float64(len(seatIDs))*showtime.Price {
		return nil, ErrAmountBelowTotal
	}

	var created model.Reservation
	req := createReservationRequest{ShowtimeID: showtimeID, SeatIDs: seatIDs, AmountPaid: amountPaid}
	if err := r.gw.Do(ctx, http.MethodPost, "/reservations", req, &created); err != nil {
		return nil, err
	}

	// Correctness over efficiency: a full refetch is the only way the
	// cache can also pick up seats other users claimed meanwhile.
	r.Invalidate()
	if _, err := r.List(ctx); err != nil {
		// The reservation exists server-side; the stale cache will be
		// repaired by the next successful List.
		return &created, nil
	}
	return &created, nil
}

// Cancel removes a reservation.  On success the one reservation is
// pruned from the cached showtime with no refetch; cancelling our own
// claim cannot change any other data this client holds.  On failure
// (including an unknown or already-cancelled id) the cache is left
// untouched and the error surfaced — never a silent success.
func (r *ShowtimeRepo) Cancel(ctx context.Context, reservationID string) (*model.Reservation, error) {
	var cancelled model.Reservation
	path := fmt.Sprintf("/reservations/%s/cancel", reservationID)
	if err := r.gw.Do(ctx, http.MethodPost, path, nil, &cancelled); err != nil {
		if gateway.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrReservationNotFound, err)
		}
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.showtimes {
		if r.showtimes[i].ID != cancelled.ShowtimeID {
			continue
		}
		kept := r.showtimes[i].Reservations[:0:0]
		for _, res := range r.showtimes[i].Reservations {
			if res.ID != reservationID {
				kept = append(kept, res)
			}
		}
		r.showtimes[i].Reservations = kept
		break
	}
	return &cancelled, nil
}

// deepCopy clones a showtime slice so cache internals never leak.
func deepCopy(src []model.Showtime) ([]model.Showtime, error) {
	out := make([]model.Showtime, 0, len(src))
	if err := copier.CopyWithOption(&out, &src, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return out, nil
}
