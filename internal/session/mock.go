package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// MockStore is an in-memory SessionStore for tests.
type MockStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	next     int

	// Call records
	ClearCalls []string
}

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{sessions: map[string]Session{}}
}

var _ SessionStore = (*MockStore)(nil)

func (m *MockStore) Create(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("session-%d", m.next)
	m.sessions[id] = Session{ID: id}
	return id, nil
}

func (m *MockStore) Save(ctx context.Context, id string, token string, user paddio.CurrentUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := user
	m.sessions[id] = Session{ID: id, Token: token, User: &u}
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MockStore) Clear(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls = append(m.ClearCalls, id)
	if _, ok := m.sessions[id]; ok {
		m.sessions[id] = Session{ID: id}
	}
	return nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStore) Credentials(id string) paddio.CredentialProvider {
	return &mockCredentials{store: m, id: id}
}

type mockCredentials struct {
	store *MockStore
	id    string
}

func (c *mockCredentials) Token(ctx context.Context) (string, error) {
	sess, err := c.store.Get(ctx, c.id)
	if err != nil {
		return "", nil
	}
	return sess.Token, nil
}

func (c *mockCredentials) Clear(ctx context.Context) error {
	return c.store.Clear(ctx, c.id)
}
