package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single 0600 file.
type FileTokenStore struct {
	Path string
}

// DefaultTokenPath is <user config dir>/watchlist/token.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watchlist", "token"), nil
}

func (s FileTokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

func (s FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore keeps the token for the life of the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save("")
}

// User is the identity carried by the session token.
type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type tokenClaims struct {
	User
	jwt.RegisteredClaims
}

// Session is the client's auth context. The signature is not checked here; the server does
// that on every request and a 401 invalidates the session.
type Session struct {
	mu        sync.RWMutex
	store     TokenStore
	token     string
	user      User
	expires   time.Time
	listeners map[int]func(authenticated bool)
	nextID    int
	now       func() time.Time
}

func NewSession(store TokenStore) *Session {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	return &Session{store: store, listeners: map[int]func(bool){}, now: time.Now}
}

// Init loads a stored token. A missing, unreadable or expired token leaves the session
// signed out and is removed from the store.
func (s *Session) Init() error {
	token, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return nil
	}
	user, expires, err := parseToken(token)
	if err != nil || (!expires.IsZero() && !s.now().Before(expires)) {
		return s.store.Clear()
	}
	s.mu.Lock()
	s.token, s.user, s.expires = token, user, expires
	s.mu.Unlock()
	s.notify(true)
	return nil
}

// Login stores a freshly issued token.
func (s *Session) Login(token string) error {
	user, expires, err := parseToken(token)
	if err != nil {
		return err
	}
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.mu.Lock()
	s.token, s.user, s.expires = token, user, expires
	s.mu.Unlock()
	s.notify(true)
	return nil
}

// Invalidate signs the session out. Listeners only hear about it when it was signed in.
func (s *Session) Invalidate() {
	s.mu.Lock()
	had := s.token != ""
	s.token, s.user, s.expires = "", User{}, time.Time{}
	s.mu.Unlock()
	_ = s.store.Clear()
	if had {
		s.notify(false)
	}
}

// Token returns the bearer token, or "" when signed out or expired.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return ""
	}
	return s.token
}

func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return User{}, false
	}
	return s.user, true
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

func (s *Session) validLocked() bool {
	return s.token != "" && (s.expires.IsZero() || s.now().Before(s.expires))
}

// Subscribe registers fn for sign-in and sign-out transitions and returns a function that
// removes it.
func (s *Session) Subscribe(fn func(authenticated bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) notify(authenticated bool) {
	s.mu.RLock()
	fns := make([]func(bool), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(authenticated)
	}
}

func parseToken(token string) (User, time.Time, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return User{}, time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.User.ID == 0 {
		return User{}, time.Time{}, errors.New("parse token: missing user id")
	}
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return claims.User, expires, nil
}
