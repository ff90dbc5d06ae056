package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a new SessionStore.
func New(db *sql.DB) SessionStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// Create opens an empty session and returns its id.
func (s *store) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.ensure(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *store) ensure(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, access_token, user_blob, created_at, updated_at)
		VALUES (?, NULL, NULL, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, now, now)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Save stores token and user for the session, creating it if needed.
func (s *store) Save(ctx context.Context, id string, token string, user paddio.CurrentUser) error {
	if token == "" {
		return errors.New("refusing to save a session without a token")
	}
	blob, err := msgpack.Marshal(&user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, access_token, user_blob, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			user_blob = excluded.user_blob,
			updated_at = excluded.updated_at
	`, id, token, blob, now, now)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get loads a session. A stored user that cannot be decoded is treated as
// logged out.
func (s *store) Get(ctx context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		token                sql.NullString
		blob                 []byte
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, user_blob, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`, id).Scan(&token, &blob, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	sess := Session{
		ID:        id,
		CreatedAt: time.Unix(createdAt, 0),
		UpdatedAt: time.Unix(updatedAt, 0),
	}
	if !token.Valid || token.String == "" || len(blob) == 0 {
		return sess, nil
	}
	var user paddio.CurrentUser
	if err := msgpack.Unmarshal(blob, &user); err != nil {
		log.Warn("Discarding unreadable session user", "session", id, "error", err)
		return sess, nil
	}
	sess.Token = token.String
	sess.User = &user
	return sess, nil
}

// Clear drops token and user but keeps the session row.
func (s *store) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET access_token = NULL, user_blob = NULL, updated_at = ?
		WHERE id = ?
	`, s.now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Delete removes the session row.
func (s *store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Credentials exposes one session as a paddio.CredentialProvider, so a 401
// from the API logs that session out.
func (s *store) Credentials(id string) paddio.CredentialProvider {
	return &credentials{store: s, id: id}
}

type credentials struct {
	store *store
	id    string
}

func (c *credentials) Token(ctx context.Context) (string, error) {
	sess, err := c.store.Get(ctx, c.id)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (c *credentials) Clear(ctx context.Context) error {
	return c.store.Clear(ctx, c.id)
}
