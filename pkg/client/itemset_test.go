package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(items []Favorite) []uint {
	out := make([]uint, len(items))
	for i, f := range items {
		out[i] = f.ID
	}
	return out
}

func TestItemSet(t *testing.T) {
	s := NewItemSet()
	s.Upsert(Favorite{ID: 3, Title: "C"})
	s.Upsert(Favorite{ID: 2, Title: "B"})
	s.Upsert(Favorite{ID: 1, Title: "A"})
	s.Upsert(Favorite{ID: 2, Title: "B2"})
	assert.Equal(t, []uint{3, 2, 1}, ids(s.Items()))
	f, ok := s.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "B2", f.Title)

	s.Prepend(Favorite{ID: 4})
	s.Prepend(Favorite{ID: 1, Title: "A2"})
	assert.Equal(t, []uint{4, 3, 2, 1}, ids(s.Items()))

	assert.True(t, s.Remove(3))
	assert.False(t, s.Remove(3))
	assert.Equal(t, []uint{4, 2, 1}, ids(s.Items()))
	assert.Equal(t, 3, s.Len())

	s.Reset()
	assert.Zero(t, s.Len())
	_, ok = s.Get(1)
	assert.False(t, ok)
}
