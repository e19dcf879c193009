package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Rorical/RoriBoard/internal/models"
)

// TokenKey is the fixed key the bearer token is persisted under.
const TokenKey = "token"

var ErrNoToken = errors.New("session: not logged in")

type EventKind int

const (
	EventLogin EventKind = iota
	EventLogout
)

func (k EventKind) String() string {
	if k == EventLogin {
		return "login"
	}
	return "logout"
}

// Event is delivered to subscribers on every login and logout.
type Event struct {
	Kind   EventKind
	Reason string
	User   *models.User
}

const (
	ReasonUser         = "user"
	ReasonUnauthorized = "unauthorized"
)

// Store owns the bearer token and the signed-in user. The token is read from
// the backend once in Open and changes only through Login and Logout.
type Store struct {
	mu          sync.RWMutex
	backend     Backend
	token       string
	user        *models.User
	subscribers map[int]func(Event)
	nextID      int
}

// Open loads any persisted token from backend.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	token, _, err := backend.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Store{
		backend:     backend,
		token:       token,
		subscribers: make(map[int]func(Event)),
	}, nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// User returns the last known user, if any.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetUser records the user resolved for the current token.
func (s *Store) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	copied := *u
	s.user = &copied
}

// Login persists token and notifies subscribers.
func (s *Store) Login(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return ErrNoToken
	}
	if err := s.backend.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	if user != nil {
		copied := *user
		s.user = &copied
	}
	s.mu.Unlock()
	s.publish(Event{Kind: EventLogin, User: s.User()})
	return nil
}

// Logout clears the token and notifies subscribers with reason. Logging out
// while already logged out is a no-op.
func (s *Store) Logout(ctx context.Context, reason string) error {
	s.mu.Lock()
	wasAuthed := s.token != ""
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	err := s.backend.Delete(ctx, TokenKey)
	if wasAuthed {
		s.publish(Event{Kind: EventLogout, Reason: reason})
	}
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Subscribe registers fn for session events and returns its unsubscribe func.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Close releases the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	s.subscribers = make(map[int]func(Event))
	s.mu.Unlock()
	return s.backend.Close()
}

func (s *Store) publish(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}
