package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/customer-auth"
	"github.com/stretchr/testify/assert"
)

func TestRegisterUserHandler(t *testing.T) {
	manager := auth.NewRepositoryManager(setupTestDB(t))
	handler := auth.NewRegisterUserHandler(manager)
	ctx := context.Background()

	t.Run("registers a customer", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterUserMessage{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "(415) 555-2671",
			Password:  "correct horse",
		})
		assert.NoError(t, err)

		user, err := manager.Users().GetByEmail(ctx, "ada@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "ada", user.Username, "username falls back to the email local part")
		assert.Equal(t, auth.RoleCustomer, user.Role)
		assert.Equal(t, "+14155552671", user.Phone, "phone is stored in E.164 form")
		assert.NoError(t, auth.ComparePasswordAndHash("correct horse", user.PasswordHash))
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "no-password",
			Email:    "nobody@example.com",
		})
		assert.Error(t, err)

		_, err = manager.Users().GetByEmail(ctx, "nobody@example.com")
		assert.Error(t, err, "the transaction must not have committed")
	})

	t.Run("rejects an invalid phone number", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "bad-phone",
			Email:    "bad-phone@example.com",
			Phone:    "not a number",
			Password: "correct horse",
		})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate accounts", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "ada",
			Email:    "ada@example.com",
			Password: "correct horse",
		})
		assert.Error(t, err)
	})
}

func TestSetAccountLockHandler(t *testing.T) {
	manager := auth.NewRepositoryManager(setupTestDB(t))
	handler := auth.NewSetAccountLockHandler(manager)
	ctx := context.Background()

	user := seedUser(t, manager.Users())

	t.Run("locks by any identifier", func(t *testing.T) {
		err := handler.Execute(ctx, auth.SetAccountLockMessage{
			Identifier: "ada@example.com",
			Locked:     true,
		})
		assert.NoError(t, err)

		found, err := manager.Users().GetByIdentifier(ctx, user.ID.String())
		assert.NoError(t, err)
		assert.True(t, found.Locked)
	})

	t.Run("locking an already locked account is a no-op", func(t *testing.T) {
		err := handler.Execute(ctx, auth.SetAccountLockMessage{
			Identifier: "ada",
			Locked:     true,
		})
		assert.NoError(t, err)
	})

	t.Run("unlocks again", func(t *testing.T) {
		err := handler.Execute(ctx, auth.SetAccountLockMessage{
			Identifier: "+14155552671",
			Locked:     false,
		})
		assert.NoError(t, err)

		found, err := manager.Users().GetByUsername(ctx, "ada")
		assert.NoError(t, err)
		assert.False(t, found.Locked)
	})

	t.Run("unknown account", func(t *testing.T) {
		err := handler.Execute(ctx, auth.SetAccountLockMessage{
			Identifier: "ghost",
			Locked:     true,
		})
		assert.Error(t, err)
	})
}

func TestResetPasswordHandler(t *testing.T) {
	manager := auth.NewRepositoryManager(setupTestDB(t))
	handler := auth.NewResetPasswordHandler(manager)
	ctx := context.Background()

	user := seedUser(t, manager.Users())

	err := handler.Execute(ctx, auth.ResetPasswordMessage{
		UserID:   user.ID,
		Password: "battery staple",
	})
	assert.NoError(t, err)

	found, err := manager.Users().GetByUsername(ctx, "ada")
	assert.NoError(t, err)
	assert.NoError(t, auth.ComparePasswordAndHash("battery staple", found.PasswordHash))
}
