package domain

const (
	FavoriteTypeMovie = "movie"
	FavoriteTypeShow  = "show"
)

// FilterAll disables the type filter on list requests.
const FilterAll = "all"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// IsFavoriteType reports whether t is one of the two allowed favorite types.
func IsFavoriteType(t string) bool {
	return t == FavoriteTypeMovie || t == FavoriteTypeShow
}
