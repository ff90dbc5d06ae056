package session_test

import (
	"context"
	"testing"

	"github.com/mauv0809/paddio-admin/internal/database"
	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/mauv0809/paddio-admin/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates an in-memory SQLite database for testing.
func setupTestStore(t *testing.T) session.SessionStore {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return session.New(db)
}

func TestCreateIsLoggedOut(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
	assert.Nil(t, sess.User)
}

func TestSaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	user := paddio.CurrentUser{ID: 4, Name: "Root", Email: "root@paddio.app", Role: paddio.RoleSuperAdmin}

	require.NoError(t, store.Save(ctx, session.CLISessionID, "tok-1", user))

	sess, err := store.Get(ctx, session.CLISessionID)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, user, *sess.User)
	assert.True(t, sess.IsSuperAdmin())

	require.NoError(t, store.Save(ctx, session.CLISessionID, "tok-2", paddio.CurrentUser{ID: 5, Role: paddio.RoleAdmin}))
	sess, err = store.Get(ctx, session.CLISessionID)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", sess.Token)
	assert.False(t, sess.IsSuperAdmin())
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	store := setupTestStore(t)
	err := store.Save(context.Background(), "x", "", paddio.CurrentUser{})
	assert.Error(t, err)
}

func TestGetUnknown(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestCredentialsClearDropsTokenAndUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "web-1", "tok", paddio.CurrentUser{ID: 1, Role: paddio.RoleSuperAdmin}))

	creds := store.Credentials("web-1")
	token, err := creds.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, creds.Clear(ctx))

	token, err = creds.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	sess, err := store.Get(ctx, "web-1")
	require.NoError(t, err)
	assert.Nil(t, sess.User)
}

func TestCredentialsForUnknownSession(t *testing.T) {
	store := setupTestStore(t)
	token, err := store.Credentials("nobody").Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	id, err := store.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
