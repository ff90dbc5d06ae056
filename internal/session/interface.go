package session

import (
	"context"

	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// SessionStore persists the bearer token and current user of each session.
// Token and user are always written and cleared together.
type SessionStore interface {
	Create(ctx context.Context) (string, error)
	Save(ctx context.Context, id string, token string, user paddio.CurrentUser) error
	Get(ctx context.Context, id string) (Session, error)
	Clear(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Credentials(id string) paddio.CredentialProvider
}
