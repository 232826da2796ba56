package model

// Movie is a catalog entry from the external movie catalog.  The
// catalog uses snake_case field names on the wire, unlike the
// reservation backend.  ReleaseDate stays a plain "2006-01-02" string
// as delivered; callers parse it when they need date arithmetic.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int64 `json:"genre_ids"`
}

// Genre is a catalog genre used to tag movies.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
