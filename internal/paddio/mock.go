package paddio

import (
	"context"
	"encoding/json"
	"sync"
)

// MutationCall records one Create, Update, Delete or ToggleStatus call.
type MutationCall struct {
	Resource string
	ID       int64
	Payload  any
}

// MockClient is a mock implementation of the API interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	LoginFunc            func(username, password string) (Token, error)
	MeFunc               func() (CurrentUser, error)
	FetchCollectionFunc  func(resource string) (json.RawMessage, error)
	ClubCourtsFunc       func(clubID int64) ([]Court, error)
	CreateFunc           func(resource string, payload any) (json.RawMessage, error)
	UpdateFunc           func(resource string, id int64, payload any) (json.RawMessage, error)
	DeleteFunc           func(resource string, id int64) error
	ToggleStatusFunc     func(resource string, id int64) (json.RawMessage, error)
	UserReservationsFunc func(userID int64) (UserReservations, error)
	SendBroadcastFunc    func(req BroadcastRequest) (NotificationResult, error)
	SendToUserFunc       func(userID int64, n Notification) (NotificationResult, error)

	// Call records
	LoginCalls            []string
	MeCalls               int
	FetchCollectionCalls  []string
	ClubCourtsCalls       []int64
	CreateCalls           []MutationCall
	UpdateCalls           []MutationCall
	DeleteCalls           []MutationCall
	ToggleStatusCalls     []MutationCall
	UserReservationsCalls []int64
	SendBroadcastCalls    []BroadcastRequest
	SendToUserCalls       []SendToUserCall
}

// SendToUserCall records one SendToUser call.
type SendToUserCall struct {
	UserID       int64
	Notification Notification
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ API = (*MockClient)(nil)

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCalls = nil
	m.MeCalls = 0
	m.FetchCollectionCalls = nil
	m.ClubCourtsCalls = nil
	m.CreateCalls = nil
	m.UpdateCalls = nil
	m.DeleteCalls = nil
	m.ToggleStatusCalls = nil
	m.UserReservationsCalls = nil
	m.SendBroadcastCalls = nil
	m.SendToUserCalls = nil
}

// WithCollection makes FetchCollection answer resource with the JSON encoding
// of items. Other resources answer with an empty array.
func (m *MockClient) WithCollection(resource string, items any) *MockClient {
	data, err := json.Marshal(items)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.FetchCollectionFunc
	m.FetchCollectionFunc = func(name string) (json.RawMessage, error) {
		if name == resource {
			return data, nil
		}
		if prev != nil {
			return prev(name)
		}
		return json.RawMessage("[]"), nil
	}
	return m
}

func (m *MockClient) Login(ctx context.Context, username, password string) (Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCalls = append(m.LoginCalls, username)
	if m.LoginFunc != nil {
		return m.LoginFunc(username, password)
	}
	return Token{AccessToken: "mock-token", TokenType: "bearer"}, nil
}

func (m *MockClient) Me(ctx context.Context) (CurrentUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MeCalls++
	if m.MeFunc != nil {
		return m.MeFunc()
	}
	return CurrentUser{ID: 1, Name: "Root", Email: "root@paddio.app", Role: RoleSuperAdmin}, nil
}

func (m *MockClient) FetchCollection(ctx context.Context, resource string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCollectionCalls = append(m.FetchCollectionCalls, resource)
	if m.FetchCollectionFunc != nil {
		return m.FetchCollectionFunc(resource)
	}
	return json.RawMessage("[]"), nil
}

func (m *MockClient) ClubCourts(ctx context.Context, clubID int64) ([]Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClubCourtsCalls = append(m.ClubCourtsCalls, clubID)
	if m.ClubCourtsFunc != nil {
		return m.ClubCourtsFunc(clubID)
	}
	return []Court{}, nil
}

func (m *MockClient) Create(ctx context.Context, resource string, payload any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, MutationCall{Resource: resource, Payload: payload})
	if m.CreateFunc != nil {
		return m.CreateFunc(resource, payload)
	}
	return json.RawMessage("{}"), nil
}

func (m *MockClient) Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, MutationCall{Resource: resource, ID: id, Payload: payload})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(resource, id, payload)
	}
	return json.RawMessage("{}"), nil
}

func (m *MockClient) Delete(ctx context.Context, resource string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, MutationCall{Resource: resource, ID: id})
	if m.DeleteFunc != nil {
		return m.DeleteFunc(resource, id)
	}
	return nil
}

func (m *MockClient) ToggleStatus(ctx context.Context, resource string, id int64) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ToggleStatusCalls = append(m.ToggleStatusCalls, MutationCall{Resource: resource, ID: id})
	if m.ToggleStatusFunc != nil {
		return m.ToggleStatusFunc(resource, id)
	}
	return json.RawMessage("{}"), nil
}

func (m *MockClient) UserReservations(ctx context.Context, userID int64) (UserReservations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UserReservationsCalls = append(m.UserReservationsCalls, userID)
	if m.UserReservationsFunc != nil {
		return m.UserReservationsFunc(userID)
	}
	return UserReservations{UserID: userID, Reservations: []PregameTurn{}}, nil
}

func (m *MockClient) SendBroadcast(ctx context.Context, req BroadcastRequest) (NotificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendBroadcastCalls = append(m.SendBroadcastCalls, req)
	if m.SendBroadcastFunc != nil {
		return m.SendBroadcastFunc(req)
	}
	return NotificationResult{Success: true}, nil
}

func (m *MockClient) SendToUser(ctx context.Context, userID int64, n Notification) (NotificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendToUserCalls = append(m.SendToUserCalls, SendToUserCall{UserID: userID, Notification: n})
	if m.SendToUserFunc != nil {
		return m.SendToUserFunc(userID, n)
	}
	return NotificationResult{Success: true, SentCount: 1}, nil
}
