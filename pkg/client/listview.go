package client

import (
	"context"
	"strings"
	"sync"

	"github.com/mozillazg/go-unidecode"
)

// FavoriteAPI is the part of Client a ListView drives.
type FavoriteAPI interface {
	ListFavorites(ctx context.Context, p ListParams) (*FavoritePage, error)
	CreateFavorite(ctx context.Context, d FavoriteDraft) (*Favorite, error)
	PatchFavorite(ctx context.Context, id uint, p FavoritePatch) (*Favorite, error)
	DeleteFavorite(ctx context.Context, id uint) error
}

// ListState is a snapshot of a ListView.
type ListState struct {
	Items      []Favorite
	Page       int
	FilterType string
	Search     string
	HasMore    bool
	Loading    bool
	Halted     bool
	Err        error
}

// ListView is an infinitely scrolled, filterable list of the user's favorites. Pages are
// merged by id; at most one page fetch runs at a time, and a fetch started before a filter
// or search change is discarded when it completes.
type ListView struct {
	api   FavoriteAPI
	limit int

	mu         sync.Mutex
	items      *ItemSet
	page       int
	loaded     bool // page has been fetched successfully
	filterType string
	search     string
	hasMore    bool
	loading    bool
	halted     bool
	err        error
	gen        uint64
	onChange   func(ListState)
}

func NewListView(api FavoriteAPI, limit int) *ListView {
	if limit <= 0 {
		limit = 10
	}
	return &ListView{api: api, limit: limit, items: NewItemSet(), page: 1, filterType: TypeAll}
}

// OnChange registers fn to receive a snapshot after every state change.
func (v *ListView) OnChange(fn func(ListState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

func (v *ListView) State() ListState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *ListView) stateLocked() ListState {
	return ListState{
		Items:      v.items.Items(),
		Page:       v.page,
		FilterType: v.filterType,
		Search:     v.search,
		HasMore:    v.hasMore,
		Loading:    v.loading,
		Halted:     v.halted,
		Err:        v.err,
	}
}

func (v *ListView) emit() {
	v.mu.Lock()
	fn := v.onChange
	st := v.stateLocked()
	v.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}

// Load fetches the first page with the current filter and search.
func (v *ListView) Load(ctx context.Context) error {
	return v.reset(ctx, func() {})
}

// SetFilter switches the type filter ("all", "movie" or "show") and reloads from page 1.
func (v *ListView) SetFilter(ctx context.Context, filterType string) error {
	return v.reset(ctx, func() { v.filterType = filterType })
}

// SetSearch switches the title search and reloads from page 1.
func (v *ListView) SetSearch(ctx context.Context, term string) error {
	return v.reset(ctx, func() { v.search = strings.TrimSpace(term) })
}

func (v *ListView) reset(ctx context.Context, mutate func()) error {
	v.mu.Lock()
	mutate()
	v.gen++
	v.items.Reset()
	v.page = 1
	v.loaded = false
	v.hasMore = false
	v.halted = false
	v.err = nil
	return v.fetchLocked(ctx)
}

// ReachEnd is called when the end of the list becomes visible. It fetches the next page
// unless there is none, a fetch is running, or the last fetch failed.
func (v *ListView) ReachEnd(ctx context.Context) error {
	v.mu.Lock()
	if !v.hasMore || v.loading || v.halted {
		v.mu.Unlock()
		return nil
	}
	v.page++
	v.loaded = false
	return v.fetchLocked(ctx)
}

// Retry repeats the fetch that failed.
func (v *ListView) Retry(ctx context.Context) error {
	v.mu.Lock()
	if v.loading || !v.halted {
		v.mu.Unlock()
		return nil
	}
	v.halted = false
	v.err = nil
	if v.loaded {
		if !v.hasMore {
			v.mu.Unlock()
			v.emit()
			return nil
		}
		v.page++
		v.loaded = false
	}
	return v.fetchLocked(ctx)
}

// fetchLocked fetches v.page. It must be called with v.mu held and releases it.
func (v *ListView) fetchLocked(ctx context.Context) error {
	gen, page := v.gen, v.page
	params := ListParams{Page: page, Limit: v.limit, Type: v.filterType, Search: v.search}
	v.loading = true
	v.mu.Unlock()
	v.emit()

	res, err := v.api.ListFavorites(ctx, params)

	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		return nil
	}
	v.loading = false
	if err != nil {
		if page > 1 {
			v.page = page - 1
			v.loaded = true
		}
		v.halted = true
		v.err = err
	} else {
		for _, f := range res.Data {
			v.items.Upsert(f)
		}
		v.hasMore = res.Pagination.HasMore
		v.loaded = true
	}
	v.mu.Unlock()
	v.emit()
	return err
}

// matchesLocked reports whether f passes the current filter and search.
func (v *ListView) matchesLocked(f Favorite) bool {
	if v.filterType != "" && v.filterType != TypeAll && f.Type != v.filterType {
		return false
	}
	if v.search == "" {
		return true
	}
	return strings.Contains(fold(f.Title), fold(v.search))
}

func fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}

// Apply folds a change-feed event into the list.
func (v *ListView) Apply(ev FavoriteEvent) {
	v.mu.Lock()
	switch ev.Type {
	case EventDeleted:
		v.items.Remove(ev.ID)
	case EventCreated:
		if ev.Favorite != nil && v.matchesLocked(*ev.Favorite) {
			v.items.Prepend(*ev.Favorite)
		}
	case EventUpdated:
		if ev.Favorite == nil {
			break
		}
		if _, ok := v.items.Get(ev.ID); ok {
			if v.matchesLocked(*ev.Favorite) {
				v.items.Upsert(*ev.Favorite)
			} else {
				v.items.Remove(ev.ID)
			}
		}
	}
	v.mu.Unlock()
	v.emit()
}

// Add creates a favorite and puts it at the top of the list when it matches the filter.
func (v *ListView) Add(ctx context.Context, d FavoriteDraft) (*Favorite, error) {
	fav, err := v.api.CreateFavorite(ctx, d)
	if err != nil {
		return nil, err
	}
	v.Apply(FavoriteEvent{Type: EventCreated, ID: fav.ID, Favorite: fav})
	return fav, nil
}

// Delete asks confirm first and only contacts the server when it returns true. It reports
// whether the favorite was deleted.
func (v *ListView) Delete(ctx context.Context, id uint, confirm func(Favorite) bool) (bool, error) {
	v.mu.Lock()
	fav, ok := v.items.Get(id)
	v.mu.Unlock()
	if !ok {
		return false, ErrNotInList
	}
	if confirm != nil && !confirm(fav) {
		return false, nil
	}
	err := v.api.DeleteFavorite(ctx, id)
	if err != nil && !IsNotFound(err) {
		return false, err
	}
	v.mu.Lock()
	v.items.Remove(id)
	v.mu.Unlock()
	v.emit()
	return err == nil, err
}

// EditSession edits one favorite. Draft is changed by the caller; Original stays as loaded.
type EditSession struct {
	api      FavoriteAPI
	view     *ListView
	Original Favorite
	Draft    Favorite
	done     bool
}

// NewEditSession edits f outside of any list view.
func NewEditSession(api FavoriteAPI, f Favorite) *EditSession {
	return &EditSession{api: api, Original: f, Draft: cloneFavorite(f)}
}

// BeginEdit snapshots the favorite with the given id.
func (v *ListView) BeginEdit(id uint) (*EditSession, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fav, ok := v.items.Get(id)
	if !ok {
		return nil, ErrNotInList
	}
	e := NewEditSession(v.api, fav)
	e.view = v
	return e, nil
}

// Save sends only the changed fields. With nothing changed it returns ErrNoChanges without
// a request. On success the row is replaced in place and the session ends.
func (e *EditSession) Save(ctx context.Context) (*Favorite, error) {
	if e.done {
		return nil, ErrEditFinished
	}
	patch := Diff(e.Original, e.Draft)
	if patch.Empty() {
		return nil, ErrNoChanges
	}
	updated, err := e.api.PatchFavorite(ctx, e.Original.ID, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		merged := e.Draft
		updated = &merged
	}
	e.done = true
	if v := e.view; v != nil {
		v.mu.Lock()
		if _, ok := v.items.Get(updated.ID); ok {
			v.items.Upsert(*updated)
		}
		v.mu.Unlock()
		v.emit()
	}
	return updated, nil
}

// Cancel discards the draft.
func (e *EditSession) Cancel() {
	e.done = true
}

func cloneFavorite(f Favorite) Favorite {
	c := f
	c.Director = clonePtr(f.Director)
	c.Budget = clonePtr(f.Budget)
	c.Location = clonePtr(f.Location)
	c.Duration = clonePtr(f.Duration)
	c.Year = clonePtr(f.Year)
	c.PosterURL = clonePtr(f.PosterURL)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
