package repository

import (
	"context"
	"strings"

	"watchlist/internal/domain"
	"watchlist/internal/models"

	"gorm.io/gorm"
)

// FavoriteFilter selects a user's favorites. Type is "all", "movie" or "show"; Search is
// matched as a substring of the folded title.
type FavoriteFilter struct {
	UserID uint
	Type   string
	Search string
	Limit  int
	Offset int
}

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Create(ctx context.Context, f *models.Favorite) error {
	f.SearchTitle = models.FoldTitle(f.Title)
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FavoriteRepository) GetByID(ctx context.Context, id, userID uint) (*models.Favorite, error) {
	var f models.Favorite
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FavoriteRepository) scoped(ctx context.Context, f FavoriteFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Favorite{}).Where("user_id = ?", f.UserID)
	if f.Type != "" && f.Type != domain.FilterAll {
		q = q.Where("type = ?", f.Type)
	}
	if term := models.FoldTitle(f.Search); term != "" {
		q = q.Where("search_title LIKE ? ESCAPE '!'", "%"+escapeLike(term)+"%")
	}
	return q
}

// List returns one page of matching favorites, newest first, plus the total match count.
func (r *FavoriteRepository) List(ctx context.Context, f FavoriteFilter) ([]models.Favorite, int64, error) {
	var total int64
	if err := r.scoped(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	list := make([]models.Favorite, 0, f.Limit)
	if total == 0 {
		return list, 0, nil
	}
	err := r.scoped(ctx, f).
		Order("created_at DESC").
		Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&list).Error
	return list, total, err
}

// Update applies columns to the row matching (id, userID) and reports whether a row matched.
// A "title" column also refreshes search_title.
func (r *FavoriteRepository) Update(ctx context.Context, id, userID uint, columns map[string]interface{}) (bool, error) {
	if title, ok := columns["title"].(string); ok {
		columns["search_title"] = models.FoldTitle(title)
	}
	res := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(columns)
	return res.RowsAffected > 0, res.Error
}

func (r *FavoriteRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
