package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"watchlist/internal/cache"
	"watchlist/internal/mocks"
	"watchlist/pkg/tmdb"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const imageBase = "https://image.tmdb.org/t/p/w500"

func inception() *tmdb.Movie {
	budget := 160000000.0
	runtime := 148
	poster := "/inception.jpg"
	return &tmdb.Movie{
		ID:                  27205,
		Title:               "Inception",
		Budget:              &budget,
		Runtime:             &runtime,
		ReleaseDate:         "2010-07-15",
		PosterPath:          &poster,
		ProductionCountries: []tmdb.Country{{ISO: "US", Name: "United States of America"}, {ISO: "GB", Name: "United Kingdom"}},
	}
}

func TestCatalogSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockCatalogProvider(ctrl)
	svc := NewCatalogService(provider, nil, time.Hour, imageBase)
	ctx := context.Background()

	_, err := svc.Search(ctx, "   ")
	assert.ErrorIs(t, err, ErrQueryRequired)

	provider.EXPECT().SearchMovies(gomock.Any(), "inception").Return([]tmdb.SearchResult{{ID: 27205, Title: "Inception"}}, nil)
	results, err := svc.Search(ctx, " inception ")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	provider.EXPECT().SearchMovies(gomock.Any(), "heat").Return(nil, errors.New("boom"))
	_, err = svc.Search(ctx, "heat")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestCatalogDetailsNormalization(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockCatalogProvider(ctrl)
	svc := NewCatalogService(provider, cache.Noop{}, time.Hour, imageBase+"/")

	provider.EXPECT().MovieDetails(gomock.Any(), int64(27205)).Return(inception(), nil)
	d, err := svc.Details(context.Background(), 27205)
	require.NoError(t, err)
	year := 2010
	budget := 160000000.0
	assert.Equal(t, &CatalogDetails{
		Title:     "Inception",
		Type:      "movie",
		Director:  "",
		Budget:    &budget,
		Location:  "United States of America",
		Duration:  "148 mins",
		Year:      &year,
		PosterURL: imageBase + "/inception.jpg",
	}, d)

	provider.EXPECT().MovieDetails(gomock.Any(), int64(1)).Return(&tmdb.Movie{ID: 1, Title: "Bare"}, nil)
	d, err = svc.Details(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "N/A", d.Duration)
	assert.Nil(t, d.Budget)
	assert.Nil(t, d.Year)
	assert.Empty(t, d.Location)
	assert.Empty(t, d.PosterURL)

	provider.EXPECT().MovieDetails(gomock.Any(), int64(2)).Return(nil, &tmdb.Error{StatusCode: 404})
	_, err = svc.Details(context.Background(), 2)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestCatalogDetailsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer rc.Close()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockCatalogProvider(ctrl)
	provider.EXPECT().MovieDetails(gomock.Any(), int64(27205)).Return(inception(), nil).Times(1)
	svc := NewCatalogService(provider, rc, time.Hour, imageBase)

	first, err := svc.Details(context.Background(), 27205)
	require.NoError(t, err)
	second, err := svc.Details(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Hour, mr.TTL("watchlist:catalog:details:27205"))
}
