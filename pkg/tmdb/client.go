// Package tmdb is a small client for The Movie Database v3 API covering title search and
// movie details.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

type Config struct {
	BaseURL           string
	APIKey            string
	ReadToken         string // v4 read access token, sent as a bearer token
	Timeout           time.Duration
	RequestsPerSecond float64
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date,omitempty"`
}

type Country struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type Movie struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Budget              *float64  `json:"budget"`
	Runtime             *int      `json:"runtime"`
	ReleaseDate         string    `json:"release_date"`
	PosterPath          *string   `json:"poster_path"`
	ProductionCountries []Country `json:"production_countries"`
}

// Error is a non-2xx answer from TMDB.
type Error struct {
	StatusCode    int    `json:"-"`
	Code          int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (e *Error) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("tmdb: http %d: %s", e.StatusCode, e.StatusMessage)
	}
	return fmt.Sprintf("tmdb: http %d", e.StatusCode)
}

// NewClient builds a client. A ReadToken is preferred over APIKey; with neither set every
// call is still attempted and TMDB answers 401.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{}
	apiKey := cfg.APIKey
	if cfg.ReadToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.ReadToken, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(context.Background(), src)
		apiKey = ""
	}
	httpClient.Timeout = timeout

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// SearchMovies returns the first page of TMDB's title search.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	var out struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "/search/movie", params, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = []SearchResult{}
	}
	return out.Results, nil
}

func (c *Client) MovieDetails(ctx context.Context, id int64) (*Movie, error) {
	var m Movie
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}
