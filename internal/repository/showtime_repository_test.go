package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefront/cinefront/internal/gateway"
	"github.com/cinefront/cinefront/internal/model"
	"github.com/cinefront/cinefront/internal/session"
)

// fakeBackend serves a mutable showtime list the way the reservation
// backend does, counting list fetches and reservation posts.
type fakeBackend struct {
	mu          sync.Mutex
	showtimes   []model.Showtime
	listFetches atomic.Int64
	createPosts atomic.Int64

	rejectCreate *gateway.APIError // when set, POST /reservations fails
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/showtimes":
			b.listFetches.Add(1)
			b.mu.Lock()
			defer b.mu.Unlock()
			json.NewEncoder(w).Encode(b.showtimes)

		case r.Method == http.MethodPost && r.URL.Path == "/reservations":
			b.createPosts.Add(1)
			if b.rejectCreate != nil {
				w.WriteHeader(b.rejectCreate.StatusCode)
				json.NewEncoder(w).Encode(map[string]string{"message": b.rejectCreate.Message})
				return
			}
			var req struct {
				ShowtimeID string   `json:"showtimeId"`
				SeatIDs    []string `json:"seatIds"`
				AmountPaid float64  `json:"amountPaid"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			b.mu.Lock()
			defer b.mu.Unlock()
			created := model.Reservation{
				ID:         "r-new",
				UserID:     "u1",
				ShowtimeID: req.ShowtimeID,
				AmountPaid: req.AmountPaid,
			}
			for i, id := range req.SeatIDs {
				created.ReservedSeats = append(created.ReservedSeats,
					model.ReservedSeat{ID: "rs-new-" + req.SeatIDs[i], SeatID: id})
			}
			for i := range b.showtimes {
				if b.showtimes[i].ID == req.ShowtimeID {
					b.showtimes[i].Reservations = append(b.showtimes[i].Reservations, created)
				}
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(created)

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/cancel"):
			id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/reservations/"), "/cancel")
			b.mu.Lock()
			defer b.mu.Unlock()
			for i := range b.showtimes {
				for j, res := range b.showtimes[i].Reservations {
					if res.ID == id {
						b.showtimes[i].Reservations = append(
							b.showtimes[i].Reservations[:j], b.showtimes[i].Reservations[j+1:]...)
						json.NewEncoder(w).Encode(res)
						return
					}
				}
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "reservation not found"})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// fixture: one showtime at $10 with four seats, seat s3 already
// reserved by another user.
func newFixture() *fakeBackend {
	return &fakeBackend{showtimes: []model.Showtime{{
		ID:             "st1",
		StartTime:      time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC),
		Price:          10.0,
		CatalogMovieID: 42,
		Auditorium: model.Auditorium{
			ID: "aud1", Name: "Screen 1", Capacity: 4,
			Seats: []model.Seat{
				{ID: "s1", Label: "A1"}, {ID: "s2", Label: "A2"},
				{ID: "s3", Label: "A3"}, {ID: "s4", Label: "B1"},
			},
		},
		Reservations: []model.Reservation{{
			ID: "r1", UserID: "u2", ShowtimeID: "st1", AmountPaid: 10,
			ReservedSeats: []model.ReservedSeat{{ID: "rs1", SeatID: "s3"}},
		}},
	}}}
}

func newRepo(t *testing.T, b *fakeBackend) (*ShowtimeRepo, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	gw := gateway.New(srv.URL, srv.Client(), session.NewStore(), nil)
	return NewShowtimeRepo(gw), srv
}

func TestListCachesUnderOneKey(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	ctx := context.Background()

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), backend.listFetches.Load(), "repeated callers share one fetch")
}

func TestListReturnsDeepCopies(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	ctx := context.Background()

	got, err := repo.List(ctx)
	require.NoError(t, err)
	got[0].Reservations[0].ID = "tampered"
	got[0].Auditorium.Seats[0].Label = "ZZ99"

	clean, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", clean[0].Reservations[0].ID, "cache must not alias caller slices")
	assert.Equal(t, "A1", clean[0].Auditorium.Seats[0].Label)
}

func TestAvailableSeatsFormula(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	list, err := repo.List(context.Background())
	require.NoError(t, err)

	// capacity 4 minus the one reserved seat
	assert.Equal(t, 3, AvailableSeats(list[0]))

	// never negative, even on inconsistent payloads
	broken := list[0]
	broken.Auditorium.Capacity = 0
	assert.Equal(t, 0, AvailableSeats(broken))
}

func TestCreatePreconditionsBlockNetwork(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	cases := []struct {
		name    string
		id      string
		seats   []string
		amount  float64
		wantErr error
	}{
		{"no seats", "st1", nil, 0, ErrNoSeatsSelected},
		{"duplicate seats", "st1", []string{"s1", "s1"}, 20, ErrDuplicateSeats},
		{"seat already reserved", "st1", []string{"s3"}, 10, ErrSeatAlreadyReserved},
		{"amount below total", "st1", []string{"s1", "s2"}, 15, ErrAmountBelowTotal},
		{"unknown showtime", "nope", []string{"s1"}, 10, ErrShowtimeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tc.id, tc.seats, tc.amount)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Equal(t, int64(0), backend.createPosts.Load(), "local failures must never reach the network")
}

func TestCreateSuccessRefetchesList(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	created, err := repo.Create(ctx, "st1", []string{"s1", "s2"}, 20.0)
	require.NoError(t, err)
	assert.Equal(t, "r-new", created.ID)
	assert.Len(t, created.ReservedSeats, 2)

	assert.Equal(t, int64(2), backend.listFetches.Load(), "success invalidates and refetches")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list[0].Reservations, 2)
	assert.Equal(t, 1, AvailableSeats(list[0]), "both new seats now unavailable")

	reserved := ReservedSeatIDs(list[0])
	assert.Contains(t, reserved, "s1")
	assert.Contains(t, reserved, "s2")
	assert.Contains(t, reserved, "s3")
}

func TestCreateServerRejectionLeavesCacheUntouched(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	// Another user took the seat between our fetch and our submit.
	backend.rejectCreate = &gateway.APIError{StatusCode: http.StatusConflict, Message: "seat is no longer available"}

	_, err = repo.Create(ctx, "st1", []string{"s1"}, 10.0)
	require.Error(t, err)
	assert.Equal(t, "seat is no longer available", gateway.MessageOr(err, "fallback"))

	assert.Equal(t, int64(1), backend.listFetches.Load(), "no refetch on failure")
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list[0].Reservations, 1, "cache unchanged until our own refetch")
}

func TestCancelPrunesLocallyWithoutRefetch(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	cancelled, err := repo.Cancel(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", cancelled.ID)
	assert.Equal(t, "st1", cancelled.ShowtimeID)

	assert.Equal(t, int64(1), backend.listFetches.Load(), "cancel is a surgical cache patch")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list[0].Reservations)
	assert.Equal(t, 4, AvailableSeats(list[0]), "the seat is released")
}

func TestCancelUnknownReservationFails(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	ctx := context.Background()
	_, err := repo.List(ctx)
	require.NoError(t, err)

	_, err = repo.Cancel(ctx, "ghost")
	require.Error(t, err, "cancelling an unknown id is a failure, never a silent success")
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.True(t, gateway.IsStatus(err, http.StatusNotFound))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list[0].Reservations, 1, "cache left unchanged")
	assert.Equal(t, int64(1), backend.listFetches.Load())
}

func TestUserReservations(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)
	list, err := repo.List(context.Background())
	require.NoError(t, err)

	assert.Len(t, UserReservations(list[0], "u2"), 1)
	assert.Empty(t, UserReservations(list[0], "u1"))
	assert.Empty(t, UserReservations(list[0], ""), "anonymous users own nothing")
	assert.True(t, HasUserReservation(list[0], "u2"))
	assert.False(t, HasUserReservation(list[0], "u1"))
}

func TestConcurrentListsShareOneFetch(t *testing.T) {
	backend := newFixture()
	repo, _ := newRepo(t, backend)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.List(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, int64(1), backend.listFetches.Load())
}
