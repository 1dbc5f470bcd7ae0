package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"watchlist/internal/mocks"
	"watchlist/internal/router"
	"watchlist/internal/testutil"
	"watchlist/pkg/client"
	"watchlist/pkg/tmdb"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type cliEnv struct {
	server    *httptest.Server
	catalog   *mocks.MockCatalogProvider
	tokenFile string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	catalog := mocks.NewMockCatalogProvider(gomock.NewController(t))
	engine := router.Setup(testutil.TestConfig(), testutil.NewTestDB(t), router.Dependencies{Catalog: catalog})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return &cliEnv{server: srv, catalog: catalog, tokenFile: filepath.Join(t.TempDir(), "token")}
}

// run executes one CLI invocation with a fresh runner, the way separate shell commands would.
func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	r := NewRunner(RunnerOpts{Logger: logger, Output: out, Input: strings.NewReader(stdin)})
	argv := append([]string{"watchlist", "--server", e.server.URL, "--token-file", e.tokenFile}, args...)
	err := newApp(r).Run(context.Background(), argv)
	return out.String(), err
}

func (e *cliEnv) signup(t *testing.T) {
	t.Helper()
	out, err := e.run(t, "", "signup", "--username", "ana", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as ana")
}

func TestCLI_RequiresSession(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run(t, "", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrSignedOut)
}

func TestCLI_SessionPersistsAcrossRuns(t *testing.T) {
	e := newCLIEnv(t)
	e.signup(t)

	out, err := e.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ana <ana@example.com>")

	_, err = e.run(t, "", "logout")
	require.NoError(t, err)
	_, err = e.run(t, "", "whoami")
	assert.ErrorIs(t, err, client.ErrSignedOut)

	out, err = e.run(t, "", "signin", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ana")
}

func TestCLI_FavoriteLifecycle(t *testing.T) {
	e := newCLIEnv(t)
	e.signup(t)

	out, err := e.run(t, "", "--json", "add", "--title", "Inception", "--director", "Christopher Nolan", "--year", "2010")
	require.NoError(t, err)
	var created client.Favorite
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "movie", created.Type)
	require.NotNil(t, created.Year)
	assert.Equal(t, 2010, *created.Year)
	id := jsonID(created.ID)

	out, err = e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Inception")
	assert.Contains(t, out, "Christopher Nolan")
	assert.Contains(t, out, "1 total")

	out, err = e.run(t, "", "edit", id, "--title", "Inception")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to update\n", out)

	out, err = e.run(t, "", "--json", "edit", id, "--location", "Paris", "--clear", "year")
	require.NoError(t, err)
	var updated client.Favorite
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Paris", *updated.Location)
	assert.Nil(t, updated.Year)
	require.NotNil(t, updated.Director)

	out, err = e.run(t, "n\n", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, `Kept "Inception"`)

	out, err = e.run(t, "y\n", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted "Inception"`)

	out, err = e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites yet")
}

func TestCLI_AddValidationError(t *testing.T) {
	e := newCLIEnv(t)
	e.signup(t)

	_, err := e.run(t, "", "add", "--title", "Dark", "--type", "series")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
	assert.Contains(t, err.Error(), "type")
}

func TestCLI_AddFromCatalog(t *testing.T) {
	e := newCLIEnv(t)
	e.signup(t)
	e.catalog.EXPECT().MovieDetails(gomock.Any(), int64(27205)).Return(&tmdb.Movie{
		ID:          27205,
		Title:       "Inception",
		ReleaseDate: "2010-07-15",
		Runtime:     testutil.Ptr(148),
		Budget:      testutil.Ptr(160000000.0),
	}, nil)

	out, err := e.run(t, "", "--json", "add", "--from-catalog", "27205", "--location", "Tokyo")
	require.NoError(t, err)
	var created client.Favorite
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "Inception", created.Title)
	require.NotNil(t, created.Duration)
	assert.Equal(t, "148 mins", *created.Duration)
	require.NotNil(t, created.Location)
	assert.Equal(t, "Tokyo", *created.Location)
}

func TestCLI_InvalidFavoriteID(t *testing.T) {
	e := newCLIEnv(t)
	e.signup(t)

	for _, arg := range []string{"abc", "0"} {
		_, err := e.run(t, "", "show", arg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid favorite id")
	}
	_, err := e.run(t, "", "show")
	assert.EqualError(t, err, "missing favorite id")
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
