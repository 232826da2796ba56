// Package catalog is the read-only client for the external movie
// catalog.  It authenticates with a static bearer token and is fully
// independent of the user session: catalog reads work signed out and
// never touch the refresh machinery.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cinefront/cinefront/internal/model"
)

// Client fetches movies and genres.  accountID selects whose
// favorites list forms the movie catalog shown by the app.
type Client struct {
	baseURL   string
	token     string
	accountID string
	http      *http.Client
}

// New returns a catalog Client.  httpClient may carry its own timeout;
// it is not shared with the reservation gateway.
func New(baseURL, token, accountID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		accountID: accountID,
		http:      httpClient,
	}
}

// moviesPage is one page of the paginated favorites listing.
type moviesPage struct {
	TotalPages int           `json:"total_pages"`
	Results    []model.Movie `json:"results"`
}

// FetchMovies returns the complete movie list.  Page 1 is fetched
// first to learn the page count, then all remaining pages are fetched
// concurrently and concatenated in ascending page order, preserving
// item order within each page.  Any page failure fails the whole
// fetch: a partial catalog is never returned.
func (c *Client) FetchMovies(ctx context.Context) ([]model.Movie, error) {
	prefix := fmt.Sprintf("/account/%s/favorite/movies", c.accountID)

	var first moviesPage
	if err := c.get(ctx, fmt.Sprintf("%s?page=1", prefix), &first); err != nil {
		return nil, fmt.Errorf("fetching movies page 1: %w", err)
	}
	if first.TotalPages <= 1 {
		return first.Results, nil
	}

	// Index-addressed so completion order cannot reorder pages.
	rest := make([][]model.Movie, first.TotalPages-1)
	g, gctx := errgroup.WithContext(ctx)
	for page := 2; page <= first.TotalPages; page++ {
		g.Go(func() error {
			var p moviesPage
			if err := c.get(gctx, fmt.Sprintf("%s?page=%d", prefix, page), &p); err != nil {
				return fmt.Errorf("fetching movies page %d: %w", page, err)
			}
			rest[page-2] = p.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := first.Results
	for _, page := range rest {
		all = append(all, page...)
	}
	return all, nil
}

// FetchGenres returns the genre list used to tag movies.
func (c *Client) FetchGenres(ctx context.Context) ([]model.Genre, error) {
	var out struct {
		Genres []model.Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", &out); err != nil {
		return nil, fmt.Errorf("fetching genres: %w", err)
	}
	return out.Genres, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// StatusError is a non-2xx catalog response.  The catalog reports
// failures with a status_message field rather than the reservation
// backend's message field.
type StatusError struct {
	StatusCode    int
	StatusMessage string
}

func (e *StatusError) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("catalog: %s (status %d)", e.StatusMessage, e.StatusCode)
	}
	return fmt.Sprintf("catalog: status %d", e.StatusCode)
}

func decodeStatusError(resp *http.Response) error {
	serr := &StatusError{StatusCode: resp.StatusCode}
	var body struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		serr.StatusMessage = body.StatusMessage
	}
	return serr
}
