package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

func createTestUser(t *testing.T, db *DB, login, email string) *model.User {
	t.Helper()
	u := &model.User{
		Login:        login,
		Email:        email,
		PasswordHash: "$2a$04$hash",
		PasswordSalt: "$2a$04$salt",
		Confirmation: model.EmailConfirmation{
			Code:           "code-" + login,
			ExpirationDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, db.CreateUser(context.Background(), u))
	return u
}

func TestUser_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "alice", "alice@mail.com")

	byLogin, err := db.FindUserByLoginOrEmail(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byLogin)
	assert.Equal(t, u.ID, byLogin.ID)
	assert.Equal(t, "$2a$04$hash", byLogin.PasswordHash)
	assert.False(t, byLogin.Confirmation.IsConfirmed)
	assert.Equal(t, "code-alice", byLogin.Confirmation.Code)
	assert.True(t, byLogin.Confirmation.ExpirationDate.Equal(u.Confirmation.ExpirationDate))
	assert.Nil(t, byLogin.Recovery)

	byEmail, err := db.FindUserByLoginOrEmail(ctx, "alice@mail.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	missing, err := db.FindUserByLoginOrEmail(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = db.GetUser(ctx, "nope")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUser_DuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "alice", "alice@mail.com")

	err := db.CreateUser(ctx, &model.User{Login: "alice", Email: "other@mail.com", PasswordHash: "h", PasswordSalt: "s"})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "login", appErr.Field)

	err = db.CreateUser(ctx, &model.User{Login: "other", Email: "alice@mail.com", PasswordHash: "h", PasswordSalt: "s"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "email", appErr.Field)
}

func TestUser_Exists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "alice", "alice@mail.com")

	ok, err := db.LoginExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.EmailExists(ctx, "bob@mail.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUser_ListMatchesEitherTerm(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "alice", "a@mail.com")
	createTestUser(t, db, "bob", "bob@work.org")
	createTestUser(t, db, "carol", "carol@mail.com")

	tests := []struct {
		name   string
		filter model.UserFilter
		want   int
	}{
		{"no terms", model.UserFilter{}, 3},
		{"login only", model.UserFilter{SearchLoginTerm: "AL"}, 1},
		{"email only", model.UserFilter{SearchEmailTerm: "mail.com"}, 2},
		{"login or email", model.UserFilter{SearchLoginTerm: "bob", SearchEmailTerm: "carol"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := db.ListUsers(ctx, tt.filter, pagination.PageRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.TotalCount)
			for _, u := range page.Items {
				assert.Empty(t, u.PasswordHash, "list projection must not carry the hash")
				assert.Empty(t, u.PasswordSalt)
			}
		})
	}
}

func TestUser_ConfirmOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "alice", "alice@mail.com")

	found, err := db.FindUserByConfirmationCode(ctx, "code-alice")
	require.NoError(t, err)
	require.NotNil(t, found)

	first, err := db.ConfirmUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := db.ConfirmUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, second, "a confirmed user cannot be confirmed again")

	got, _ := db.GetUser(ctx, u.ID)
	assert.True(t, got.Confirmation.IsConfirmed)
}

func TestUser_SetConfirmationCode(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "alice", "alice@mail.com")
	exp := time.Date(2031, 2, 3, 4, 5, 6, 0, time.UTC)

	require.NoError(t, db.SetConfirmationCode(ctx, u.ID, "fresh", exp))

	old, err := db.FindUserByConfirmationCode(ctx, "code-alice")
	require.NoError(t, err)
	assert.Nil(t, old, "the previous code is replaced")

	got, err := db.FindUserByConfirmationCode(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Confirmation.ExpirationDate.Equal(exp))
}

func TestUser_RecoveryCodeIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "alice", "alice@mail.com")
	exp := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.SetRecoveryCode(ctx, u.ID, "recover-me", exp))
	found, err := db.FindUserByRecoveryCode(ctx, "recover-me")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.Recovery)
	assert.True(t, found.Recovery.ExpiresAt.Equal(exp))

	ok, err := db.ResetPassword(ctx, "recover-me", "new-hash", "new-salt")
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := db.ResetPassword(ctx, "recover-me", "other-hash", "other-salt")
	require.NoError(t, err)
	assert.False(t, again, "the code is consumed by the first reset")

	got, _ := db.GetUser(ctx, u.ID)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Nil(t, got.Recovery)
}

func TestUser_Delete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "alice", "alice@mail.com")

	require.NoError(t, db.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, db.DeleteUser(ctx, u.ID), apperror.ErrNotFound)
}
