package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memora/models"
	"memora/utils"
)

func TestSignupCreatesSpecialFolders(t *testing.T) {
	env := newTestEnv(t)

	user := env.signup(t, "ana@example.com")
	require.NotEmpty(t, user.ID)

	folders, err := env.notes.Folders(user.ID)
	require.NoError(t, err)
	require.Len(t, folders, 2)

	byID := map[string]models.Folder{}
	for _, f := range folders {
		byID[f.ID] = f
	}

	all, ok := byID[models.AllNotesID(user.ID)]
	require.True(t, ok)
	assert.Equal(t, models.AllNotesName, all.Name)
	assert.True(t, all.IsSpecial)

	trash, ok := byID[models.RecentlyDeletedID(user.ID)]
	require.True(t, ok)
	assert.Equal(t, models.RecentlyDeletedName, trash.Name)
	assert.True(t, trash.IsSpecial)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name        string
		email       string
		password    string
		displayName string
	}{
		{"missing email", "", "pw-123456", "Ana"},
		{"missing password", "ana@example.com", "", "Ana"},
		{"missing display name", "ana@example.com", "pw-123456", ""},
		{"whitespace email", "   ", "pw-123456", "Ana"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.auth.Signup(tc.email, tc.password, tc.displayName)
			requireKind(t, err, utils.KindValidation)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ana@example.com")

	_, err := env.auth.Signup("ana@example.com", "other-pass", "Other")
	requireKind(t, err, utils.KindValidation)
}

func TestSignupDoesNotStorePlaintextPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "ana@example.com")

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "hunter2-strong")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	created := env.signup(t, "ana@example.com")

	user, err := env.auth.Login("ana@example.com", "hunter2-strong")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = env.auth.Login("ana@example.com", "wrong-password")
	requireKind(t, err, utils.KindAuthentication)

	_, err = env.auth.Login("nobody@example.com", "hunter2-strong")
	requireKind(t, err, utils.KindAuthentication)
}
