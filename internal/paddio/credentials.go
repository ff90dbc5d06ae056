package paddio

import (
	"context"
	"sync"
)

// MemoryCredentials keeps a token in memory. The zero value holds no token.
type MemoryCredentials struct {
	mu    sync.Mutex
	token string
}

// NewMemoryCredentials creates a provider holding token.
func NewMemoryCredentials(token string) *MemoryCredentials {
	return &MemoryCredentials{token: token}
}

func (m *MemoryCredentials) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryCredentials) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
