package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserStore is the slice of Users the directory needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
	GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*User, error)
	GetByPhone(ctx context.Context, phone string, criteria ...repository.SelectCriteria) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// Directory resolves login identifiers to identities and verifies password
// credentials against the stored hash.
type Directory struct {
	store  UserStore
	logger Logger
}

// NewDirectory will create a new Directory backed by the given store.
func NewDirectory(store UserStore, logger Logger) *Directory {
	if logger == nil {
		logger = defLogger{}
	}
	return &Directory{
		store:  store,
		logger: logger,
	}
}

var _ UserDirectory = (*Directory)(nil)

func (d *Directory) FindByUsername(ctx context.Context, username string) (Identity, error) {
	return d.find(func() (*User, error) {
		return d.store.GetByUsername(ctx, username)
	})
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (Identity, error) {
	return d.find(func() (*User, error) {
		return d.store.GetByEmail(ctx, email)
	})
}

func (d *Directory) FindByPhone(ctx context.Context, phone string) (Identity, error) {
	return d.find(func() (*User, error) {
		return d.store.GetByPhone(ctx, phone)
	})
}

func (d *Directory) FindByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	return d.find(func() (*User, error) {
		return d.store.GetByIdentifier(ctx, identifier)
	})
}

func (d *Directory) FindUnlockedByUsername(ctx context.Context, username string) (Identity, error) {
	return d.find(func() (*User, error) {
		return d.store.GetByUsername(ctx, username, OnlyUnlocked())
	})
}

func (d *Directory) FindUnlockedByEmail(ctx context.Context, email string) (Identity, error) {
	return d.find(func() (*User, error) {
		return d.store.GetByEmail(ctx, email, OnlyUnlocked())
	})
}

func (d *Directory) FindUnlockedByPhone(ctx context.Context, phone string) (Identity, error) {
	return d.find(func() (*User, error) {
		return d.store.GetByPhone(ctx, phone, OnlyUnlocked())
	})
}

func (d *Directory) FindLockedByUsername(ctx context.Context, username string) (Identity, error) {
	return d.find(func() (*User, error) {
		return d.store.GetByUsername(ctx, username, OnlyLocked())
	})
}

// VerifyPassword resolves the identifier and compares the password against
// the stored hash. An unknown identifier burns a bcrypt comparison and fails
// exactly like a wrong password, so callers cannot tell the two apart.
func (d *Directory) VerifyPassword(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := d.lookup(func() (*User, error) {
		return d.store.GetByIdentifier(ctx, identifier)
	})
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			BurnPasswordCheck(password)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if user.Locked {
		BurnPasswordCheck(password)
		return nil, ErrAccountLocked
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			if err2 := d.store.TrackAttemptedLogin(ctx, user); err2 != nil {
				d.logger.Error("failed to track login attempt", "error", err2)
			}
		}
		return nil, err
	}

	if err := d.store.TrackSuccessfulLogin(ctx, user); err != nil {
		d.logger.Error("failed to track successful login", "error", err)
	}

	return NewIdentity(user), nil
}

func (d *Directory) find(get func() (*User, error)) (Identity, error) {
	user, err := d.lookup(get)
	if err != nil {
		return nil, err
	}
	return NewIdentity(user), nil
}

func (d *Directory) lookup(get func() (*User, error)) (*User, error) {
	user, err := get()
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return user, nil
}
