package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"memora/models"
	"memora/storage"
	"memora/utils"
)

type testEnv struct {
	store *storage.Store
	auth  *AuthService
	notes *NotesService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &testEnv{
		store: store,
		auth:  NewAuthService(store),
		notes: NewNotesService(store),
	}
}

func (e *testEnv) signup(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := e.auth.Signup(email, "hunter2-strong", "Tester")
	require.NoError(t, err)
	return user
}

func requireKind(t *testing.T, err error, kind string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T", err)
	require.Equal(t, kind, appErr.Kind)
}
