package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/customer-auth"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newStoredUser(t *testing.T, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)

	return &auth.User{
		ID:           uuid.New(),
		Role:         auth.RoleCustomer,
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
	}
}

func TestDirectory_VerifyPassword(t *testing.T) {
	user := newStoredUser(t, "correct horse")

	store := &stubUserStore{
		getByIdentifier: func(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error) {
			if identifier == "ada" || identifier == "ada@example.com" {
				return user, nil
			}
			return nil, repository.NewRecordNotFound()
		},
	}
	directory := auth.NewDirectory(store, nil)

	t.Run("correct password", func(t *testing.T) {
		identity, err := directory.VerifyPassword(context.Background(), "ada", "correct horse")
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "ada", identity.Username())
		assert.Equal(t, 1, store.successfulLogins)
	})

	t.Run("wrong password", func(t *testing.T) {
		identity, err := directory.VerifyPassword(context.Background(), "ada", "battery staple")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
		assert.Equal(t, 1, store.attemptedLogins)
	})

	t.Run("unknown identifier fails like a wrong password", func(t *testing.T) {
		_, wrongPassword := directory.VerifyPassword(context.Background(), "ada", "battery staple")
		identity, err := directory.VerifyPassword(context.Background(), "nobody@example.com", "battery staple")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
		assert.Equal(t, wrongPassword, err)
	})
}

func TestDirectory_VerifyPassword_Locked(t *testing.T) {
	user := newStoredUser(t, "correct horse")
	user.Locked = true

	store := &stubUserStore{
		getByIdentifier: func(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error) {
			return user, nil
		},
	}
	directory := auth.NewDirectory(store, nil)

	// even the right password never opens a locked account
	identity, err := directory.VerifyPassword(context.Background(), "ada", "correct horse")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, auth.ErrAccountLocked)
}

func TestDirectory_Find(t *testing.T) {
	user := newStoredUser(t, "correct horse")

	store := &stubUserStore{
		getByUsername: func(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*auth.User, error) {
			if username == "ada" {
				return user, nil
			}
			return nil, repository.NewRecordNotFound()
		},
		getByEmail: func(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*auth.User, error) {
			return nil, auth.ErrDuplicateIdentity
		},
	}
	directory := auth.NewDirectory(store, nil)

	t.Run("by username", func(t *testing.T) {
		identity, err := directory.FindByUsername(context.Background(), "ada")
		assert.NoError(t, err)
		assert.Equal(t, "ada", identity.Username())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := directory.FindByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})

	t.Run("ambiguous identifier surfaces as an integrity error", func(t *testing.T) {
		_, err := directory.FindByEmail(context.Background(), "shared@example.com")
		assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)
	})

	t.Run("unlocked lookup passes a criteria filter", func(t *testing.T) {
		var sawCriteria bool
		store.getByUsername = func(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*auth.User, error) {
			sawCriteria = len(criteria) > 0
			return user, nil
		}

		_, err := directory.FindUnlockedByUsername(context.Background(), "ada")
		assert.NoError(t, err)
		assert.True(t, sawCriteria)
	})
}
