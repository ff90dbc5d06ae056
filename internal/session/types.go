package session

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// CLISessionID is the fixed session used by the command line client.
const CLISessionID = "cli"

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

// Session is a stored login. A session without a token is logged out.
type Session struct {
	ID        string
	Token     string
	User      *paddio.CurrentUser
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Authenticated reports whether the session holds both a token and a user.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// IsSuperAdmin reports whether the logged-in account may use the dashboard.
func (s Session) IsSuperAdmin() bool {
	return s.Authenticated() && s.User.Role == paddio.RoleSuperAdmin
}

// store handles all database operations for sessions.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}
