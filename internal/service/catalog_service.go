package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"watchlist/internal/cache"
	"watchlist/internal/domain"
	"watchlist/internal/logger"
	"watchlist/pkg/tmdb"
)

//go:generate mockgen -destination=../mocks/catalog_provider.go -package=mocks watchlist/internal/service CatalogProvider

// CatalogProvider is the remote movie catalog.
type CatalogProvider interface {
	SearchMovies(ctx context.Context, query string) ([]tmdb.SearchResult, error)
	MovieDetails(ctx context.Context, id int64) (*tmdb.Movie, error)
}

// CatalogDetails is a catalog movie shaped like a favorite draft.
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

type CatalogService struct {
	provider     CatalogProvider
	cache        cache.Cache
	ttl          time.Duration
	imageBaseURL string
}

func NewCatalogService(provider CatalogProvider, c cache.Cache, ttl time.Duration, imageBaseURL string) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CatalogService{provider: provider, cache: c, ttl: ttl, imageBaseURL: strings.TrimRight(imageBaseURL, "/")}
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]tmdb.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	results, err := s.provider.SearchMovies(ctx, query)
	if err != nil {
		logger.WithContext("catalog", "search").WithError(err).WithField("query", query).Error("catalog search failed")
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return results, nil
}

// Details returns the normalized movie, served from cache when possible.
func (s *CatalogService) Details(ctx context.Context, id int64) (*CatalogDetails, error) {
	log := logger.WithContext("catalog", "details").WithField("movie_id", id)
	key := "catalog:details:" + strconv.FormatInt(id, 10)

	if b, err := s.cache.Get(ctx, key); err == nil {
		var d CatalogDetails
		if err := json.Unmarshal(b, &d); err == nil {
			return &d, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.WithError(err).Warn("cache read failed")
	}

	m, err := s.provider.MovieDetails(ctx, id)
	if err != nil {
		log.WithError(err).Error("catalog details failed")
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	d := s.normalize(m)

	if b, err := json.Marshal(d); err == nil {
		if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
			log.WithError(err).Warn("cache write failed")
		}
	}
	return d, nil
}

func (s *CatalogService) normalize(m *tmdb.Movie) *CatalogDetails {
	d := &CatalogDetails{
		Title:    m.Title,
		Type:     domain.FavoriteTypeMovie,
		Budget:   m.Budget,
		Duration: "N/A",
	}
	if len(m.ProductionCountries) > 0 {
		d.Location = m.ProductionCountries[0].Name
	}
	if m.Runtime != nil && *m.Runtime > 0 {
		d.Duration = fmt.Sprintf("%d mins", *m.Runtime)
	}
	if len(m.ReleaseDate) >= 4 {
		if y, err := strconv.Atoi(m.ReleaseDate[:4]); err == nil {
			d.Year = &y
		}
	}
	if m.PosterPath != nil && *m.PosterPath != "" {
		d.PosterURL = s.imageBaseURL + *m.PosterPath
	}
	return d
}
