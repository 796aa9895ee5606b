// Package session provides the per-visitor state the storefront keeps between
// requests: the authenticated customer marker, the authenticated admin marker,
// and the shopping cart. State lives server-side keyed by an opaque cookie id.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/greenbasket/storefront/cart"
)

// CookieName is the cookie carrying the session id.
const CookieName = "storefront_session"

// Session is the fixed vocabulary of per-visitor state. A zero UserID means
// no customer is logged in; a zero AdminID means no admin is logged in.
type Session struct {
	UserID   uint      `json:"user_id,omitempty"`
	UserName string    `json:"user_name,omitempty"`
	AdminID  uint      `json:"admin_id,omitempty"`
	Cart     cart.Cart `json:"cart"`
}

// Store persists sessions by id. Saves are last-write-wins: two requests in
// the same session racing each other is acceptable at this scale and there
// is no merge detection.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, s *Session) error
	Delete(ctx context.Context, id string) error
}

// State is the loaded session plus what a handler needs to write it back.
type State struct {
	ID      string
	Session *Session
	store   Store
}

// NewState binds a session to its id and backing store.
func NewState(id string, s *Session, store Store) *State {
	return &State{ID: id, Session: s, store: store}
}

// Save writes the session back to the store.
func (st *State) Save(ctx context.Context) error {
	return st.store.Save(ctx, st.ID, st.Session)
}

type contextKey struct{}

// ContextWithState returns a context carrying the session state.
func ContextWithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, contextKey{}, st)
}

// FromContext returns the session state loaded by the middleware, or nil
// if the request did not pass through it.
func FromContext(ctx context.Context) *State {
	st, _ := ctx.Value(contextKey{}).(*State)
	return st
}

// Manager loads sessions for incoming requests and mints ids for new visitors.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Middleware resolves the session cookie, loads the session, and places the
// state on the request context. A visitor without a cookie gets a fresh id.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			id = c.Value
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
			})
		}

		s, err := m.store.Load(r.Context(), id)
		if err != nil {
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}

		st := NewState(id, s, m.store)
		next.ServeHTTP(w, r.WithContext(ContextWithState(r.Context(), st)))
	})
}

// MemoryStore keeps sessions in-process. Used for development runs without
// Redis and throughout the tests. Sessions are stored encoded so that a
// loaded session never aliases a saved one, matching the Redis backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return &Session{}, nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[id] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
