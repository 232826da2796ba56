package booking

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cinefront/cinefront/internal/model"
)

// otherRow buckets seats whose labels carry no alphabetic row prefix.
// It sorts after every real row.
const otherRow = "Other"

var rowPrefix = regexp.MustCompile(`^[A-Za-z]+`)

// SeatRow is one display row of the seat picker.
type SeatRow struct {
	Row   string       `json:"row"`
	Seats []model.Seat `json:"seats"`
}

// GroupSeats arranges seats for display: grouped by the leading
// alphabetic prefix of the label ("A" from "A12"), rows sorted
// lexicographically, seats within a row by their numeric suffix
// ascending.  Labels with no prefix fall into a catch-all bucket
// sorted last.
func GroupSeats(seats []model.Seat) []SeatRow {
	grouped := make(map[string][]model.Seat)
	for _, seat := range seats {
		row := otherRow
		if m := rowPrefix.FindString(seat.Label); m != "" {
			row = strings.ToUpper(m)
		}
		grouped[row] = append(grouped[row], seat)
	}

	rows := make([]string, 0, len(grouped))
	for row := range grouped {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i] == otherRow {
			return false
		}
		if rows[j] == otherRow {
			return true
		}
		return rows[i] < rows[j]
	})

	out := make([]SeatRow, 0, len(rows))
	for _, row := range rows {
		rowSeats := grouped[row]
		sort.SliceStable(rowSeats, func(i, j int) bool {
			return seatNumber(rowSeats[i].Label) < seatNumber(rowSeats[j].Label)
		})
		out = append(out, SeatRow{Row: row, Seats: rowSeats})
	}
	return out
}

// seatNumber extracts the trailing numeric suffix of a label; labels
// without one sort as zero.
func seatNumber(label string) int {
	trimmed := rowPrefix.ReplaceAllString(label, "")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return n
}

// FilterSeats returns the seats whose label contains the query,
// case-insensitively.  A blank query returns the input unchanged.
func FilterSeats(seats []model.Seat, query string) []model.Seat {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return seats
	}
	var out []model.Seat
	for _, seat := range seats {
		if strings.Contains(strings.ToLower(seat.Label), q) {
			out = append(out, seat)
		}
	}
	return out
}
