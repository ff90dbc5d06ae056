package pubsub

import (
	"context"
	"sync"
)

// Mock is a mock implementation of Publisher for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	PublishFunc func(event Event) error

	// Call records
	PublishCalls []Event
	Closed       bool
}

// NewMock creates a new mock Publisher.
func NewMock() *Mock {
	return &Mock{}
}

var _ Publisher = (*Mock)(nil)

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = nil
}

// Publish records the call and executes the mock function if provided.
func (m *Mock) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = append(m.PublishCalls, event)
	if m.PublishFunc != nil {
		return m.PublishFunc(event)
	}
	return nil
}

// Events returns a copy of the published events.
func (m *Mock) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.PublishCalls...)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
