package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SetAccountLockMessage locks or unlocks an account. The identifier accepts
// anything the directory resolves: id, phone, email, or username.
type SetAccountLockMessage struct {
	Identifier string `json:"identifier"`
	Locked     bool   `json:"locked"`
}

func (e SetAccountLockMessage) Type() string { return "user.set_lock" }

type SetAccountLockHandler struct {
	repo RepositoryManager
}

func NewSetAccountLockHandler(repo RepositoryManager) *SetAccountLockHandler {
	return &SetAccountLockHandler{repo: repo}
}

func (h *SetAccountLockHandler) Execute(ctx context.Context, event SetAccountLockMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account lock update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SetAccountLockHandler) execute(ctx context.Context, event SetAccountLockMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByIdentifierTx(ctx, tx, event.Identifier)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryNotFound, "could not resolve account")
		}

		if user.Locked == event.Locked {
			// already in the requested state
			return nil
		}

		return h.repo.Users().SetLockedTx(ctx, tx, user.ID, event.Locked)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "account lock transaction failed")
	}

	return nil
}

// ResetPasswordMessage replaces an account's password hash.
type ResetPasswordMessage struct {
	UserID   uuid.UUID `json:"user_id"`
	Password string    `json:"password"`
}

func (e ResetPasswordMessage) Type() string { return "user.reset_password" }

type ResetPasswordHandler struct {
	repo RepositoryManager
}

func NewResetPasswordHandler(repo RepositoryManager) *ResetPasswordHandler {
	return &ResetPasswordHandler{repo: repo}
}

func (h *ResetPasswordHandler) Execute(ctx context.Context, event ResetPasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResetPasswordHandler) execute(ctx context.Context, event ResetPasswordMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	return h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return h.repo.Users().ResetPasswordTx(ctx, tx, event.UserID, hash)
	})
}
