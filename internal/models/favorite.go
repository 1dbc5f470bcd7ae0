package models

import (
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"
)

// Favorite is a movie or show saved by a user. Optional descriptive fields are pointers so
// that "absent" is stored and serialized as null.
type Favorite struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_favorites_user_created,priority:1" json:"userId"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	SearchTitle string    `gorm:"size:255;not null;default:''" json:"-"`
	Type        string    `gorm:"size:10;not null;index" json:"type"` // movie | show
	Director    *string   `gorm:"size:255" json:"director"`
	Budget      *float64  `json:"budget"`
	Location    *string   `gorm:"size:255" json:"location"`
	Duration    *string   `gorm:"size:64" json:"duration"`
	Year        *int      `json:"year"`
	PosterURL   *string   `gorm:"size:1024" json:"posterUrl"`
	CreatedAt   time.Time `gorm:"index:idx_favorites_user_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// FoldTitle lower-cases and transliterates s to ASCII so "Amélie" and "AMELIE" compare equal.
func FoldTitle(s string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
}
