package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/cinefront/cinefront/internal/model"
)

// MatchShowtimeWithMovie resolves a showtime's catalog movie, or nil
// when the catalog list does not contain it.
func MatchShowtimeWithMovie(s model.Showtime, movies []model.Movie) *model.Movie {
	for i := range movies {
		if movies[i].ID == s.CatalogMovieID {
			return &movies[i]
		}
	}
	return nil
}

// UpcomingShowtimes returns up to n showtimes starting at or after
// now, soonest first.  Feeds the "upcoming" strip on the landing page.
func UpcomingShowtimes(showtimes []model.Showtime, now time.Time, n int) []model.Showtime {
	upcoming := make([]model.Showtime, 0, len(showtimes))
	for _, s := range showtimes {
		if !s.StartTime.Before(now) {
			upcoming = append(upcoming, s)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime.Before(upcoming[j].StartTime)
	})
	if n >= 0 && len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// FormatDuration renders the screening length as "2h 30m", dropping
// the zero component.
func FormatDuration(start, end time.Time) string {
	minutes := int(end.Sub(start).Minutes())
	hours := minutes / 60
	rest := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
}

// FormatPrice renders a dollar amount with two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}
