package client

import (
	"context"
	"strings"
	"sync"
	"time"
)

const DefaultDebounce = 400 * time.Millisecond

// CatalogAPI is the part of Client a Searcher uses.
type CatalogAPI interface {
	SearchCatalog(ctx context.Context, query string) ([]CatalogResult, error)
}

// Searcher debounces catalog queries typed by a user. Only the newest query's outcome is
// delivered; an older in-flight request is cancelled and its result dropped.
type Searcher struct {
	api      CatalogAPI
	delay    time.Duration
	onResult func(query string, results []CatalogResult, err error)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewSearcher(api CatalogAPI, delay time.Duration, onResult func(query string, results []CatalogResult, err error)) *Searcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Searcher{api: api, delay: delay, onResult: onResult}
}

// Type records the current input. The search runs once input has been quiet for the delay.
// Blank input only cancels what is pending.
func (s *Searcher) Type(query string) {
	query = strings.TrimSpace(query)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.stopLocked()
	if query == "" {
		return
	}
	seq := s.seq
	s.timer = time.AfterFunc(s.delay, func() { s.run(seq, query) })
}

// Stop cancels any pending or running search.
func (s *Searcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.stopLocked()
}

func (s *Searcher) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Searcher) run(seq uint64, query string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()

	results, err := s.api.SearchCatalog(ctx, query)

	s.mu.Lock()
	stale := seq != s.seq
	if !stale {
		s.cancel = nil
	}
	s.mu.Unlock()
	if stale || s.onResult == nil {
		return
	}
	s.onResult(query, results, err)
}
