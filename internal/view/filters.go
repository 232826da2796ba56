// Package view computes derived, presentation-ready views over
// repository data: composable filter/sort pipelines for movies and
// showtimes plus a few formatting helpers.  Everything here is pure —
// inputs are never mutated — so the UI layer can re-derive views
// freely without touching core state.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/cinefront/cinefront/internal/model"
	"github.com/cinefront/cinefront/internal/repository"
)

// SortOrder direction for any comparator.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// MovieSortField selects the movie comparator.
type MovieSortField string

const (
	MovieSortTitle  MovieSortField = "title"
	MovieSortDate   MovieSortField = "date"
	MovieSortRating MovieSortField = "rating"
)

// MovieFilter is the parameterised movie pipeline.  Zero values mean
// "no constraint"; the zero filter passes everything through in
// title-ascending order.
type MovieFilter struct {
	Title             string
	StartDate         *time.Time
	EndDate           *time.Time
	GenreIDs          []int64
	OnlyWithShowtimes bool
	SortBy            MovieSortField
	SortOrder         SortOrder
}

// Apply filters and sorts movies.  showtimes is consulted only for
// the OnlyWithShowtimes predicate (a movie qualifies when at least
// one showtime references its catalog id).
func (f MovieFilter) Apply(movies []model.Movie, showtimes []model.Showtime) []model.Movie {
	title := strings.ToLower(strings.TrimSpace(f.Title))
	genres := make(map[int64]struct{}, len(f.GenreIDs))
	for _, id := range f.GenreIDs {
		genres[id] = struct{}{}
	}
	var withShowtimes map[int64]struct{}
	if f.OnlyWithShowtimes {
		withShowtimes = make(map[int64]struct{}, len(showtimes))
		for _, s := range showtimes {
			withShowtimes[s.CatalogMovieID] = struct{}{}
		}
	}

	out := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		if title != "" && !strings.Contains(strings.ToLower(m.Title), title) {
			continue
		}
		if f.StartDate != nil || f.EndDate != nil {
			released, ok := parseReleaseDate(m.ReleaseDate)
			if !ok {
				continue
			}
			if f.StartDate != nil && released.Before(*f.StartDate) {
				continue
			}
			if f.EndDate != nil && released.After(*f.EndDate) {
				continue
			}
		}
		if len(genres) > 0 && !hasAnyGenre(m, genres) {
			continue
		}
		if f.OnlyWithShowtimes {
			if _, ok := withShowtimes[m.ID]; !ok {
				continue
			}
		}
		out = append(out, m)
	}

	order := f.SortOrder
	if order == "" {
		order = Asc
	}
	sort.SliceStable(out, func(i, j int) bool {
		less := false
		switch f.SortBy {
		case MovieSortDate:
			di, _ := parseReleaseDate(out[i].ReleaseDate)
			dj, _ := parseReleaseDate(out[j].ReleaseDate)
			less = di.Before(dj)
		case MovieSortRating:
			less = out[i].VoteAverage < out[j].VoteAverage
		default:
			less = strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		}
		if order == Desc {
			return !less && !movieEqual(out[i], out[j], f.SortBy)
		}
		return less
	})
	return out
}

func hasAnyGenre(m model.Movie, genres map[int64]struct{}) bool {
	for _, id := range m.GenreIDs {
		if _, ok := genres[id]; ok {
			return true
		}
	}
	return false
}

func movieEqual(a, b model.Movie, field MovieSortField) bool {
	switch field {
	case MovieSortDate:
		return a.ReleaseDate == b.ReleaseDate
	case MovieSortRating:
		return a.VoteAverage == b.VoteAverage
	default:
		return strings.EqualFold(a.Title, b.Title)
	}
}

// parseReleaseDate handles the catalog's plain "2006-01-02" dates.
func parseReleaseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ShowtimeSortField selects the showtime comparator.
type ShowtimeSortField string

const (
	ShowtimeSortStart ShowtimeSortField = "startTime"
	ShowtimeSortPrice ShowtimeSortField = "price"
)

// ShowtimeFilter is the parameterised showtime pipeline.  The title
// predicate resolves through the movie list; the reservation
// predicate through UserID.
type ShowtimeFilter struct {
	Title                string
	StartDate            *time.Time
	EndDate              *time.Time
	MinPrice             *float64
	MaxPrice             *float64
	OnlyWithReservations bool
	UserID               string
	SortBy               ShowtimeSortField
	SortOrder            SortOrder
}

// Apply filters and sorts showtimes.  The repository imposes no
// ordering, so the view's comparator is the only ordering callers
// may rely on.
func (f ShowtimeFilter) Apply(showtimes []model.Showtime, movies []model.Movie) []model.Showtime {
	title := strings.ToLower(strings.TrimSpace(f.Title))
	moviesByID := make(map[int64]model.Movie, len(movies))
	for _, m := range movies {
		moviesByID[m.ID] = m
	}

	out := make([]model.Showtime, 0, len(showtimes))
	for _, s := range showtimes {
		if f.StartDate != nil && s.StartTime.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && s.StartTime.After(*f.EndDate) {
			continue
		}
		if f.MinPrice != nil && s.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && s.Price > *f.MaxPrice {
			continue
		}
		if title != "" {
			movie, ok := moviesByID[s.CatalogMovieID]
			if !ok || !strings.Contains(strings.ToLower(movie.Title), title) {
				continue
			}
		}
		if f.OnlyWithReservations {
			// Without a signed-in user there are no user-specific
			// reservations to match.
			if f.UserID == "" || !repository.HasUserReservation(s, f.UserID) {
				continue
			}
		}
		out = append(out, s)
	}

	order := f.SortOrder
	if order == "" {
		order = Asc
	}
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case ShowtimeSortPrice:
			less = out[i].Price < out[j].Price
		default:
			less = out[i].StartTime.Before(out[j].StartTime)
		}
		if order == Desc {
			return !less && !showtimeEqual(out[i], out[j], f.SortBy)
		}
		return less
	})
	return out
}

func showtimeEqual(a, b model.Showtime, field ShowtimeSortField) bool {
	if field == ShowtimeSortPrice {
		return a.Price == b.Price
	}
	return a.StartTime.Equal(b.StartTime)
}
