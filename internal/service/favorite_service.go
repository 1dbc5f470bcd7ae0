package service

import (
	"context"
	"errors"
	"fmt"

	"watchlist/internal/models"
	"watchlist/internal/repository"

	"gorm.io/gorm"
)

// EventPublisher receives favorite mutations for the owner's change feed.
type EventPublisher interface {
	Publish(userID uint, ev models.FavoriteEvent)
}

type Pagination struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

type FavoritePage struct {
	Data       []models.Favorite
	Pagination Pagination
}

// FavoriteService owns validation and ownership scoping for favorites. Every read and
// write is restricted to the calling user's rows.
type FavoriteService struct {
	repo   *repository.FavoriteRepository
	events EventPublisher
}

func NewFavoriteService(repo *repository.FavoriteRepository, events EventPublisher) *FavoriteService {
	return &FavoriteService{repo: repo, events: events}
}

func (s *FavoriteService) Create(ctx context.Context, userID uint, body []byte) (*models.Favorite, error) {
	in, err := ParseFavoriteInput(body, false)
	if err != nil {
		return nil, err
	}
	fav := in.Model(userID)
	if err := s.repo.Create(ctx, fav); err != nil {
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	s.publish(userID, models.EventFavoriteCreated, fav.ID, fav)
	return fav, nil
}

func (s *FavoriteService) List(ctx context.Context, userID uint, q ListQuery) (*FavoritePage, error) {
	items, total, err := s.repo.List(ctx, repository.FavoriteFilter{
		UserID: userID,
		Type:   q.Type,
		Search: q.Search,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	limit := int64(q.Limit)
	return &FavoritePage{
		Data: items,
		Pagination: Pagination{
			Total:   total,
			Page:    q.Page,
			Limit:   q.Limit,
			Pages:   int((total + limit - 1) / limit),
			HasMore: int64(q.Page)*limit < total,
		},
	}, nil
}

func (s *FavoriteService) Get(ctx context.Context, userID, id uint) (*models.Favorite, error) {
	fav, err := s.repo.GetByID(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFavoriteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	return fav, nil
}

// Replace overwrites every descriptive field of the favorite.
func (s *FavoriteService) Replace(ctx context.Context, userID, id uint, body []byte) (*models.Favorite, error) {
	in, err := ParseFavoriteInput(body, false)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, userID, id, in.Columns(true))
}

// Patch changes only the fields present in body. An empty body only checks that the
// favorite exists.
func (s *FavoriteService) Patch(ctx context.Context, userID, id uint, body []byte) (*models.Favorite, error) {
	in, err := ParseFavoriteInput(body, true)
	if err != nil {
		return nil, err
	}
	cols := in.Columns(false)
	if len(cols) == 0 {
		return s.Get(ctx, userID, id)
	}
	return s.update(ctx, userID, id, cols)
}

func (s *FavoriteService) update(ctx context.Context, userID, id uint, cols map[string]interface{}) (*models.Favorite, error) {
	ok, err := s.repo.Update(ctx, id, userID, cols)
	if err != nil {
		return nil, fmt.Errorf("update favorite: %w", err)
	}
	if !ok {
		return nil, ErrFavoriteNotFound
	}
	fav, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.publish(userID, models.EventFavoriteUpdated, id, fav)
	return fav, nil
}

func (s *FavoriteService) Delete(ctx context.Context, userID, id uint) error {
	ok, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if !ok {
		return ErrFavoriteNotFound
	}
	s.publish(userID, models.EventFavoriteDeleted, id, nil)
	return nil
}

func (s *FavoriteService) publish(userID uint, typ string, id uint, fav *models.Favorite) {
	if s.events == nil {
		return
	}
	s.events.Publish(userID, models.FavoriteEvent{Type: typ, ID: id, Favorite: fav})
}
