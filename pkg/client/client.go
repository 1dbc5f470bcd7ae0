// Package client is the Go client of the watchlist API: typed calls, a session holding the
// bearer token, and the list view state used by interactive front ends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	attempts   uint
	retryDelay time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets how many times idempotent requests are tried on transient failures.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.retryDelay = delay
	}
}

// New returns a client for the server at baseURL (e.g. http://localhost:3000).
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession(nil)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    session,
		attempts:   3,
		retryDelay: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	public bool
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	call := func() error {
		req, err := http.NewRequestWithContext(ctx, r.method, u, bytes.NewReader(payload))
		if err != nil {
			return retry.Unrecoverable(err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		token := ""
		if !r.public {
			token = c.session.Token()
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
		if err != nil {
			return err
		}
		if resp.StatusCode >= 400 {
			apiErr := parseAPIError(resp.StatusCode, data)
			if apiErr.Status == http.StatusUnauthorized && token != "" {
				c.session.Invalidate()
			}
			return apiErr
		}
		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
		}
		return nil
	}

	attempts := uint(1)
	if r.method == http.MethodGet {
		attempts = c.attempts
	}
	return retry.Do(call,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(transient),
	)
}

// transient reports whether a failed call is worth repeating.
func transient(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusServiceUnavailable || apiErr.Status == http.StatusTooManyRequests
	}
	return true
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup registers and signs the session in.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	var out tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/signup",
		body:   map[string]string{"username": username, "email": email, "password": password},
		public: true,
	}, &out)
	if err != nil {
		return err
	}
	return c.session.Login(out.Token)
}

func (c *Client) Signin(ctx context.Context, email, password string) error {
	var out tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/signin",
		body:   map[string]string{"email": email, "password": password},
		public: true,
	}, &out)
	if err != nil {
		return err
	}
	return c.session.Login(out.Token)
}

func (c *Client) Logout() {
	c.session.Invalidate()
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me"}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListFavorites(ctx context.Context, p ListParams) (*FavoritePage, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	var out FavoritePage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/favorites", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func favoritePath(id uint) string {
	return "/api/favorites/" + strconv.FormatUint(uint64(id), 10)
}

type favoriteResponse struct {
	Favorite *Favorite `json:"favorite"`
}

func (c *Client) GetFavorite(ctx context.Context, id uint) (*Favorite, error) {
	var out favoriteResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: favoritePath(id)}, &out); err != nil {
		return nil, err
	}
	return out.Favorite, nil
}

func (c *Client) CreateFavorite(ctx context.Context, d FavoriteDraft) (*Favorite, error) {
	var out favoriteResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/favorites", body: d}, &out); err != nil {
		return nil, err
	}
	return out.Favorite, nil
}

func (c *Client) ReplaceFavorite(ctx context.Context, id uint, d FavoriteDraft) (*Favorite, error) {
	var out favoriteResponse
	if err := c.do(ctx, request{method: http.MethodPut, path: favoritePath(id), body: d}, &out); err != nil {
		return nil, err
	}
	return out.Favorite, nil
}

// PatchFavorite sends only the fields set in p.
func (c *Client) PatchFavorite(ctx context.Context, id uint, p FavoritePatch) (*Favorite, error) {
	var out favoriteResponse
	if err := c.do(ctx, request{method: http.MethodPatch, path: favoritePath(id), body: p}, &out); err != nil {
		return nil, err
	}
	return out.Favorite, nil
}

func (c *Client) DeleteFavorite(ctx context.Context, id uint) error {
	return c.do(ctx, request{method: http.MethodDelete, path: favoritePath(id)}, nil)
}

func (c *Client) SearchCatalog(ctx context.Context, query string) ([]CatalogResult, error) {
	var out struct {
		Results []CatalogResult `json:"results"`
	}
	q := url.Values{"query": {query}}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/movies/search", query: q}, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) CatalogDetails(ctx context.Context, id int64) (*CatalogDetails, error) {
	var out struct {
		Movie CatalogDetails `json:"movie"`
	}
	path := "/api/movies/details/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	return &out.Movie, nil
}
