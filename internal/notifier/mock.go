package notifier

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	AnnounceBroadcastFunc func(b Broadcast) error
	AnnounceDeletionFunc  func(d Deletion) error

	// Call records
	AnnounceBroadcastCalls []Broadcast
	AnnounceDeletionCalls  []Deletion
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

var _ Notifier = (*Mock)(nil)

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnnounceBroadcastCalls = nil
	m.AnnounceDeletionCalls = nil
}

func (m *Mock) AnnounceBroadcast(ctx context.Context, b Broadcast, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnnounceBroadcastCalls = append(m.AnnounceBroadcastCalls, b)
	if m.AnnounceBroadcastFunc != nil {
		return m.AnnounceBroadcastFunc(b)
	}
	return nil
}

func (m *Mock) AnnounceDeletion(ctx context.Context, d Deletion, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnnounceDeletionCalls = append(m.AnnounceDeletionCalls, d)
	if m.AnnounceDeletionFunc != nil {
		return m.AnnounceDeletionFunc(d)
	}
	return nil
}
