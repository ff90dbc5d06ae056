package paddio

import (
	"context"
	"encoding/json"
)

// API defines the interface for interacting with the Paddio REST API.
// This allows for mock implementations to be used in tests.
type API interface {
	Login(ctx context.Context, username, password string) (Token, error)
	Me(ctx context.Context) (CurrentUser, error)
	FetchCollection(ctx context.Context, resource string) (json.RawMessage, error)
	ClubCourts(ctx context.Context, clubID int64) ([]Court, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource string, id int64) error
	ToggleStatus(ctx context.Context, resource string, id int64) (json.RawMessage, error)
	UserReservations(ctx context.Context, userID int64) (UserReservations, error)
	SendBroadcast(ctx context.Context, req BroadcastRequest) (NotificationResult, error)
	SendToUser(ctx context.Context, userID int64, n Notification) (NotificationResult, error)
}

// CredentialProvider supplies the bearer token for outgoing requests and is
// told to forget it when the API rejects it.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
