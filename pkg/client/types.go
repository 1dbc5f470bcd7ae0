package client

import "time"

const (
	TypeMovie = "movie"
	TypeShow  = "show"
	TypeAll   = "all"
)

type Favorite struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Director  *string   `json:"director"`
	Budget    *float64  `json:"budget"`
	Location  *string   `json:"location"`
	Duration  *string   `json:"duration"`
	Year      *int      `json:"year"`
	PosterURL *string   `json:"posterUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FavoriteDraft is the body of a create or full replace.
type FavoriteDraft struct {
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	Director  *string  `json:"director,omitempty"`
	Budget    *float64 `json:"budget,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Duration  *string  `json:"duration,omitempty"`
	Year      *int     `json:"year,omitempty"`
	PosterURL *string  `json:"posterUrl,omitempty"`
}

// Draft returns the editable fields of f.
func (f Favorite) Draft() FavoriteDraft {
	return FavoriteDraft{
		Title:     f.Title,
		Type:      f.Type,
		Director:  f.Director,
		Budget:    f.Budget,
		Location:  f.Location,
		Duration:  f.Duration,
		Year:      f.Year,
		PosterURL: f.PosterURL,
	}
}

type Pagination struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

type FavoritePage struct {
	Data       []Favorite `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type ListParams struct {
	Page   int
	Limit  int
	Type   string
	Search string
}

type CatalogResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date,omitempty"`
}

// CatalogDetails is a catalog movie pre-shaped as a favorite.
type CatalogDetails struct {
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	Director  string   `json:"director"`
	Budget    *float64 `json:"budget"`
	Location  string   `json:"location"`
	Duration  string   `json:"duration"`
	Year      *int     `json:"year"`
	PosterURL string   `json:"posterUrl"`
}

// Draft converts catalog details into a favorite draft; empty strings become absent fields.
func (d CatalogDetails) Draft() FavoriteDraft {
	str := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return FavoriteDraft{
		Title:     d.Title,
		Type:      d.Type,
		Director:  str(d.Director),
		Budget:    d.Budget,
		Location:  str(d.Location),
		Duration:  str(d.Duration),
		Year:      d.Year,
		PosterURL: str(d.PosterURL),
	}
}

const (
	EventCreated = "favorite.created"
	EventUpdated = "favorite.updated"
	EventDeleted = "favorite.deleted"
)

// FavoriteEvent is one message of the change feed.
type FavoriteEvent struct {
	Type     string    `json:"type"`
	ID       uint      `json:"id"`
	Favorite *Favorite `json:"favorite,omitempty"`
}
