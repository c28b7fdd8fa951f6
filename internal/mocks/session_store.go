package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskdesk/internal/store"
)

// MockSessionStore implements store.SessionStore for testing
type MockSessionStore struct {
	CreateFn func(ctx context.Context, session *store.Session) error
	GetFn    func(ctx context.Context, id string) (*store.Session, error)
	DeleteFn func(ctx context.Context, id string) error

	mu       sync.Mutex
	sessions map[string]store.Session
}

// Ensure MockSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates an empty in-memory session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]store.Session)}
}

// Create implements the SessionStore interface
func (m *MockSessionStore) Create(ctx context.Context, session *store.Session) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[session.ID]; exists {
		return store.ErrDuplicate
	}
	m.sessions[session.ID] = *session
	return nil
}

// Get implements the SessionStore interface
func (m *MockSessionStore) Get(ctx context.Context, id string) (*store.Session, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return &s, nil
}

// Delete implements the SessionStore interface
func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *MockSessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
