package model

// Auditorium is the room a showtime screens in, together with its
// full seat map.  Capacity is the authoritative seat count; the seat
// slice is used for the picker and may be filtered client-side.
type Auditorium struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Seats    []Seat `json:"seats"`
}

// Seat is a single selectable seat.  Label encodes row and number
// ("A12"); the booking flow groups and sorts seats by parsing it.
type Seat struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
