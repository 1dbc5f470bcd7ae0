package models

const (
	EventFavoriteCreated = "favorite.created"
	EventFavoriteUpdated = "favorite.updated"
	EventFavoriteDeleted = "favorite.deleted"
)

// FavoriteEvent is pushed on the owner's change feed after every successful write.
// Favorite is nil for deletions.
type FavoriteEvent struct {
	Type     string    `json:"type"`
	ID       uint      `json:"id"`
	Favorite *Favorite `json:"favorite,omitempty"`
}
