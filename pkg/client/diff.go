package client

import (
	"encoding/json"
	"sort"
)

// Change is one field of a FavoritePatch. Set marks the field as changed; a nil Value clears it.
type Change[T any] struct {
	Set   bool
	Value *T
}

func changed[T comparable](before, after *T) Change[T] {
	if equalPtr(before, after) {
		return Change[T]{}
	}
	return Change[T]{Set: true, Value: after}
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// FavoritePatch is a sparse PATCH body: only Set fields are sent.
type FavoritePatch struct {
	Title     Change[string]
	Type      Change[string]
	Director  Change[string]
	Budget    Change[float64]
	Location  Change[string]
	Duration  Change[string]
	Year      Change[int]
	PosterURL Change[string]
}

// Diff compares every editable field of original and draft.
func Diff(original, draft Favorite) FavoritePatch {
	return FavoritePatch{
		Title:     changed(&original.Title, &draft.Title),
		Type:      changed(&original.Type, &draft.Type),
		Director:  changed(original.Director, draft.Director),
		Budget:    changed(original.Budget, draft.Budget),
		Location:  changed(original.Location, draft.Location),
		Duration:  changed(original.Duration, draft.Duration),
		Year:      changed(original.Year, draft.Year),
		PosterURL: changed(original.PosterURL, draft.PosterURL),
	}
}

func (p FavoritePatch) fields() map[string]interface{} {
	out := map[string]interface{}{}
	add := func(name string, set bool, v interface{}) {
		if set {
			out[name] = v
		}
	}
	add("title", p.Title.Set, p.Title.Value)
	add("type", p.Type.Set, p.Type.Value)
	add("director", p.Director.Set, p.Director.Value)
	add("budget", p.Budget.Set, p.Budget.Value)
	add("location", p.Location.Set, p.Location.Value)
	add("duration", p.Duration.Set, p.Duration.Value)
	add("year", p.Year.Set, p.Year.Value)
	add("posterUrl", p.PosterURL.Set, p.PosterURL.Value)
	return out
}

// Empty reports whether no field changed.
func (p FavoritePatch) Empty() bool {
	return len(p.fields()) == 0
}

// Changed lists the JSON names of the changed fields, sorted.
func (p FavoritePatch) Changed() []string {
	names := make([]string, 0, 8)
	for name := range p.fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p FavoritePatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.fields())
}
