package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves favorites from memory, newest (highest id) first.
type fakeAPI struct {
	mu       sync.Mutex
	rows     []Favorite
	calls    []ListParams
	failNext error
	gate     chan struct{} // when set, ListFavorites waits on it
	deleted  []uint
	patches  []FavoritePatch
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{}
	for i := n; i >= 1; i-- {
		typ := TypeMovie
		if i%2 == 0 {
			typ = TypeShow
		}
		f.rows = append(f.rows, Favorite{ID: uint(i), Title: fmt.Sprintf("Title %d", i), Type: typ})
	}
	return f
}

func (f *fakeAPI) ListFavorites(ctx context.Context, p ListParams) (*FavoritePage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	gate := f.gate
	err := f.failNext
	f.failNext = nil
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var match []Favorite
	for _, r := range f.rows {
		if p.Type != "" && p.Type != TypeAll && r.Type != p.Type {
			continue
		}
		match = append(match, r)
	}
	start := (p.Page - 1) * p.Limit
	end := min(start+p.Limit, len(match))
	page := []Favorite{}
	if start < len(match) {
		page = match[start:end]
	}
	return &FavoritePage{
		Data:       page,
		Pagination: Pagination{Total: int64(len(match)), Page: p.Page, Limit: p.Limit, HasMore: p.Page*p.Limit < len(match)},
	}, nil
}

func (f *fakeAPI) CreateFavorite(ctx context.Context, d FavoriteDraft) (*Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fav := Favorite{ID: uint(len(f.rows) + 100), Title: d.Title, Type: d.Type}
	f.rows = append([]Favorite{fav}, f.rows...)
	return &fav, nil
}

func (f *fakeAPI) PatchFavorite(ctx context.Context, id uint, p FavoritePatch) (*Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, p)
	for i, r := range f.rows {
		if r.ID == id {
			if p.Title.Set {
				r.Title = *p.Title.Value
			}
			f.rows[i] = r
			return &r, nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound}
}

func (f *fakeAPI) DeleteFavorite(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestListViewPaginates(t *testing.T) {
	api := newFakeAPI(25)
	v := NewListView(api, 10)
	ctx := context.Background()

	require.NoError(t, v.Load(ctx))
	st := v.State()
	assert.Len(t, st.Items, 10)
	assert.True(t, st.HasMore)
	assert.Equal(t, 1, st.Page)

	require.NoError(t, v.ReachEnd(ctx))
	require.NoError(t, v.ReachEnd(ctx))
	st = v.State()
	assert.Len(t, st.Items, 25)
	assert.False(t, st.HasMore)
	assert.Equal(t, 3, st.Page)
	assert.Equal(t, uint(25), st.Items[0].ID)
	assert.Equal(t, uint(1), st.Items[24].ID)

	// no more pages: the sentinel is inert
	require.NoError(t, v.ReachEnd(ctx))
	assert.Equal(t, 3, api.callCount())
}

func TestListViewMergesDuplicatesById(t *testing.T) {
	api := newFakeAPI(20)
	v := NewListView(api, 10)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	// a new row shifts page 2 by one, so its first row repeats the last row of page 1
	_, err := api.CreateFavorite(ctx, FavoriteDraft{Title: "New", Type: TypeMovie})
	require.NoError(t, err)
	require.NoError(t, v.ReachEnd(ctx))

	st := v.State()
	assert.Len(t, st.Items, 19)
	seen := map[uint]bool{}
	for _, f := range st.Items {
		assert.False(t, seen[f.ID], "duplicate id %d", f.ID)
		seen[f.ID] = true
	}
}

func TestListViewFilterResets(t *testing.T) {
	api := newFakeAPI(6)
	v := NewListView(api, 2)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))
	require.NoError(t, v.ReachEnd(ctx))
	assert.Equal(t, 2, v.State().Page)

	require.NoError(t, v.SetFilter(ctx, TypeShow))
	st := v.State()
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, TypeShow, st.FilterType)
	assert.Equal(t, []uint{6, 4}, ids(st.Items))
	last := api.calls[len(api.calls)-1]
	assert.Equal(t, ListParams{Page: 1, Limit: 2, Type: TypeShow}, last)

	require.NoError(t, v.SetSearch(ctx, "  title "))
	assert.Equal(t, "title", v.State().Search)
	assert.Equal(t, "title", api.calls[len(api.calls)-1].Search)
}

func TestListViewFailureHaltsUntilRetry(t *testing.T) {
	api := newFakeAPI(30)
	v := NewListView(api, 10)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	boom := errors.New("network down")
	api.failNext = boom
	assert.ErrorIs(t, v.ReachEnd(ctx), boom)
	st := v.State()
	assert.True(t, st.Halted)
	assert.True(t, st.HasMore)
	assert.Equal(t, 1, st.Page)
	assert.Len(t, st.Items, 10)

	calls := api.callCount()
	require.NoError(t, v.ReachEnd(ctx))
	assert.Equal(t, calls, api.callCount())

	require.NoError(t, v.Retry(ctx))
	st = v.State()
	assert.False(t, st.Halted)
	assert.Equal(t, 2, st.Page)
	assert.Len(t, st.Items, 20)
}

func TestListViewFirstPageFailure(t *testing.T) {
	api := newFakeAPI(3)
	api.failNext = errors.New("down")
	v := NewListView(api, 10)
	ctx := context.Background()

	assert.Error(t, v.Load(ctx))
	assert.True(t, v.State().Halted)
	require.NoError(t, v.Retry(ctx))
	st := v.State()
	assert.Len(t, st.Items, 3)
	assert.Equal(t, []ListParams{{Page: 1, Limit: 10, Type: TypeAll}, {Page: 1, Limit: 10, Type: TypeAll}}, api.calls)
}

func TestListViewConcurrentTriggersAreNoOps(t *testing.T) {
	api := newFakeAPI(30)
	v := NewListView(api, 10)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	api.gate = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- v.ReachEnd(ctx) }()
	require.Eventually(t, func() bool { return v.State().Loading }, time.Second, time.Millisecond)

	require.NoError(t, v.ReachEnd(ctx))
	require.NoError(t, v.ReachEnd(ctx))
	close(api.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 2, api.callCount())
	assert.Equal(t, 2, v.State().Page)
}

func TestListViewDiscardsStaleResults(t *testing.T) {
	api := newFakeAPI(10)
	v := NewListView(api, 10)
	ctx := context.Background()

	gate := make(chan struct{})
	api.gate = gate
	done := make(chan error, 1)
	go func() { done <- v.Load(ctx) }()
	require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)

	api.mu.Lock()
	api.gate = nil
	api.mu.Unlock()
	require.NoError(t, v.SetFilter(ctx, TypeMovie))
	assert.Len(t, v.State().Items, 5)

	close(gate)
	require.NoError(t, <-done)
	st := v.State()
	assert.Len(t, st.Items, 5)
	for _, f := range st.Items {
		assert.Equal(t, TypeMovie, f.Type)
	}
	assert.False(t, st.Loading)
}

func TestListViewApplyEvents(t *testing.T) {
	api := newFakeAPI(4)
	v := NewListView(api, 10)
	ctx := context.Background()
	require.NoError(t, v.SetFilter(ctx, TypeMovie))
	assert.Equal(t, []uint{3, 1}, ids(v.State().Items))

	v.Apply(FavoriteEvent{Type: EventCreated, ID: 9, Favorite: &Favorite{ID: 9, Title: "New", Type: TypeMovie}})
	v.Apply(FavoriteEvent{Type: EventCreated, ID: 10, Favorite: &Favorite{ID: 10, Title: "Show", Type: TypeShow}})
	assert.Equal(t, []uint{9, 3, 1}, ids(v.State().Items))

	v.Apply(FavoriteEvent{Type: EventUpdated, ID: 3, Favorite: &Favorite{ID: 3, Title: "Renamed", Type: TypeMovie}})
	f, _ := v.items.Get(3)
	assert.Equal(t, "Renamed", f.Title)

	v.Apply(FavoriteEvent{Type: EventUpdated, ID: 1, Favorite: &Favorite{ID: 1, Title: "Now a show", Type: TypeShow}})
	v.Apply(FavoriteEvent{Type: EventDeleted, ID: 9})
	assert.Equal(t, []uint{3}, ids(v.State().Items))
}

func TestListViewDelete(t *testing.T) {
	api := newFakeAPI(3)
	v := NewListView(api, 10)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	var asked Favorite
	deleted, err := v.Delete(ctx, 2, func(f Favorite) bool { asked = f; return false })
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "Title 2", asked.Title)
	assert.Empty(t, api.deleted)
	assert.Len(t, v.State().Items, 3)

	calls := api.callCount()
	deleted, err = v.Delete(ctx, 2, func(Favorite) bool { return true })
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []uint{2}, api.deleted)
	assert.Equal(t, []uint{3, 1}, ids(v.State().Items))
	assert.Equal(t, calls, api.callCount(), "delete must not refetch")

	_, err = v.Delete(ctx, 2, nil)
	assert.ErrorIs(t, err, ErrNotInList)
}

func TestEditSession(t *testing.T) {
	api := newFakeAPI(3)
	v := NewListView(api, 10)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	edit, err := v.BeginEdit(2)
	require.NoError(t, err)
	_, err = edit.Save(ctx)
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Empty(t, api.patches)

	edit.Draft.Title = "Edited"
	updated, err := edit.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	require.Len(t, api.patches, 1)
	assert.Equal(t, []string{"title"}, api.patches[0].Changed())
	assert.Equal(t, []uint{3, 2, 1}, ids(v.State().Items))
	f, _ := v.items.Get(2)
	assert.Equal(t, "Edited", f.Title)

	_, err = edit.Save(ctx)
	assert.ErrorIs(t, err, ErrEditFinished)

	cancelled, err := v.BeginEdit(1)
	require.NoError(t, err)
	cancelled.Draft.Title = "Never sent"
	cancelled.Cancel()
	_, err = cancelled.Save(ctx)
	assert.ErrorIs(t, err, ErrEditFinished)
	assert.Len(t, api.patches, 1)
	f, _ = v.items.Get(1)
	assert.Equal(t, "Title 1", f.Title)
}

func TestEditSessionEmptyDiffMakesNoRequest(t *testing.T) {
	c, rt := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"id":1,"title":"Heat","type":"movie","director":"Michael Mann"}],"pagination":{"total":1,"page":1,"limit":10,"pages":1,"hasMore":false}}`))
	}))
	v := NewListView(c, 10)
	require.NoError(t, v.Load(context.Background()))
	before := rt.calls.Load()

	edit, err := v.BeginEdit(1)
	require.NoError(t, err)
	d := "Michael Mann"
	edit.Draft.Director = &d
	_, err = edit.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Equal(t, before, rt.calls.Load())
}
