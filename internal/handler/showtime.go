package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/cinefront/internal/catalog"
	"github.com/cinefront/cinefront/internal/model"
	"github.com/cinefront/cinefront/internal/repository"
	"github.com/cinefront/cinefront/internal/session"
	"github.com/cinefront/cinefront/internal/view"
)

// ShowtimeHandler serves the cached showtime list with optional
// filtering/sorting, and the two reservation mutations.
type ShowtimeHandler struct {
	Repo    *repository.ShowtimeRepo
	Store   *session.Store
	Catalog *catalog.Client
}

func NewShowtimeHandler(repo *repository.ShowtimeRepo, store *session.Store, cat *catalog.Client) *ShowtimeHandler {
	return &ShowtimeHandler{Repo: repo, Store: store, Catalog: cat}
}

// showtimeView is a showtime enriched with its derived availability.
type showtimeView struct {
	model.Showtime
	AvailableSeats int `json:"availableSeats"`
}

// List returns showtimes filtered and sorted per query parameters:
// title, startDate, endDate (RFC 3339), minPrice, maxPrice,
// onlyMine, sortBy (startTime|price), sortOrder (asc|desc).
// The title filter resolves through the movie catalog.
func (h *ShowtimeHandler) List(c echo.Context) error {
	showtimes, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch showtimes")
	}

	filter, needMovies, err := parseShowtimeFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	if filter.OnlyWithReservations {
		if u := h.Store.User(); u != nil {
			filter.UserID = u.ID
		}
	}

	var movies []model.Movie
	if needMovies {
		movies, err = h.Catalog.FetchMovies(c.Request().Context())
		if err != nil {
			return respondCatalogError(c, err, "Failed to fetch movies")
		}
	}

	filtered := filter.Apply(showtimes, movies)
	out := make([]showtimeView, 0, len(filtered))
	for _, s := range filtered {
		out = append(out, showtimeView{Showtime: s, AvailableSeats: repository.AvailableSeats(s)})
	}
	return c.JSON(http.StatusOK, out)
}

// Upcoming returns the next showtimes from now, soonest first.
// ?limit caps the count (default 4, the landing-page strip).
func (h *ShowtimeHandler) Upcoming(c echo.Context) error {
	showtimes, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch showtimes")
	}
	limit := 4
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid limit"})
		}
		limit = n
	}
	return c.JSON(http.StatusOK, view.UpcomingShowtimes(showtimes, time.Now(), limit))
}

// createReservationReq mirrors the booking dialog's submit payload.
type createReservationReq struct {
	ShowtimeID string   `json:"showtimeId"`
	SeatIDs    []string `json:"seatIds"`
	AmountPaid float64  `json:"amountPaid"`
}

// CreateReservation submits a reservation intent through the
// repository, which reconciles the cache on success.
func (h *ShowtimeHandler) CreateReservation(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	created, err := h.Repo.Create(c.Request().Context(), req.ShowtimeID, req.SeatIDs, req.AmountPaid)
	if err != nil {
		return respondError(c, err, "Failed to create reservation")
	}
	return c.JSON(http.StatusCreated, created)
}

// CancelReservation cancels one reservation; the repository prunes it
// from the cache on success.
func (h *ShowtimeHandler) CancelReservation(c echo.Context) error {
	cancelled, err := h.Repo.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Failed to cancel reservation")
	}
	return c.JSON(http.StatusOK, cancelled)
}

// parseShowtimeFilter builds a view.ShowtimeFilter from query
// parameters.  needMovies reports whether applying it requires the
// catalog movie list (only the title predicate does).
func parseShowtimeFilter(c echo.Context) (view.ShowtimeFilter, bool, error) {
	filter := view.ShowtimeFilter{
		Title:     c.QueryParam("title"),
		SortBy:    view.ShowtimeSortField(c.QueryParam("sortBy")),
		SortOrder: view.SortOrder(c.QueryParam("sortOrder")),
	}
	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, false, errors.New("invalid startDate")
		}
		filter.StartDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, false, errors.New("invalid endDate")
		}
		filter.EndDate = &t
	}
	if raw := c.QueryParam("minPrice"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, false, errors.New("invalid minPrice")
		}
		filter.MinPrice = &p
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, false, errors.New("invalid maxPrice")
		}
		filter.MaxPrice = &p
	}
	filter.OnlyWithReservations = c.QueryParam("onlyMine") == "true"
	return filter, filter.Title != "", nil
}
