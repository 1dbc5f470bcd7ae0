package repository

import (
	"context"
	"errors"
	"testing"

	"watchlist/internal/models"
	"watchlist/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	dup := &models.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "hash"}
	assert.Error(t, repo.Create(ctx, dup))
}

func TestFavoriteRepositoryListFiltersAndOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()
	alice := testutil.MustCreateUser(t, db, "alice")
	bob := testutil.MustCreateUser(t, db, "bob")

	for _, f := range []models.Favorite{
		{UserID: alice.ID, Title: "Inception", Type: "movie"},
		{UserID: alice.ID, Title: "Amélie", Type: "movie"},
		{UserID: alice.ID, Title: "Dark", Type: "show"},
		{UserID: bob.ID, Title: "Inception", Type: "movie"},
	} {
		f := f
		require.NoError(t, repo.Create(ctx, &f))
	}

	t.Run("newest first, scoped to owner", func(t *testing.T) {
		list, total, err := repo.List(ctx, FavoriteFilter{UserID: alice.ID, Type: "all", Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, list, 3)
		assert.Equal(t, "Dark", list[0].Title)
		assert.Equal(t, "Inception", list[2].Title)
		for _, f := range list {
			assert.Equal(t, alice.ID, f.UserID)
		}
	})

	t.Run("type filter", func(t *testing.T) {
		list, total, err := repo.List(ctx, FavoriteFilter{UserID: alice.ID, Type: "show", Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "Dark", list[0].Title)
	})

	t.Run("search folds case and accents", func(t *testing.T) {
		list, total, err := repo.List(ctx, FavoriteFilter{UserID: alice.ID, Type: "all", Search: "AMEL", Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "Amélie", list[0].Title)
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		_, total, err := repo.List(ctx, FavoriteFilter{UserID: alice.ID, Type: "all", Search: "%", Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})

	t.Run("offset beyond total", func(t *testing.T) {
		list, total, err := repo.List(ctx, FavoriteFilter{UserID: alice.ID, Type: "all", Limit: 2, Offset: 4})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Empty(t, list)
	})
}

func TestFavoriteRepositoryScopedWrites(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()
	alice := testutil.MustCreateUser(t, db, "alice")
	bob := testutil.MustCreateUser(t, db, "bob")

	f := &models.Favorite{UserID: alice.ID, Title: "Heat", Type: "movie"}
	require.NoError(t, repo.Create(ctx, f))
	assert.Equal(t, "heat", f.SearchTitle)

	ok, err := repo.Update(ctx, f.ID, bob.ID, map[string]interface{}{"title": "Stolen"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Update(ctx, f.ID, alice.ID, map[string]interface{}{"title": "Heat (1995)", "year": 1995})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, f.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat (1995)", got.Title)
	assert.Equal(t, "heat (1995)", got.SearchTitle)
	require.NotNil(t, got.Year)
	assert.Equal(t, 1995, *got.Year)

	_, err = repo.GetByID(ctx, f.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err = repo.Delete(ctx, f.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, f.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, f.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
