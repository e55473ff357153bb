package auth

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal logging surface this package needs. Both go-logger
// instances and slog-shaped loggers satisfy it.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type defLogger struct{}

func (d defLogger) Info(msg string, args ...any)  { fmt.Printf("INFO: "+msg+"\n", args...) }
func (d defLogger) Debug(msg string, args ...any) { fmt.Printf("DEBUG: "+msg+"\n", args...) }
func (d defLogger) Warn(msg string, args ...any)  { fmt.Printf("WARN: "+msg+"\n", args...) }
func (d defLogger) Error(msg string, args ...any) { fmt.Printf("ERROR: "+msg+"\n", args...) }

// Identity is the authenticated subject as seen by token issuance. The user
// directory returns concrete identities; the token service only needs this
// view.
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// Config carries the signing material and token policy. The signing key is
// injected at construction and never mutated afterwards.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

// UserDirectory resolves identifiers to identities. Lookups either return
// exactly one identity or ErrIdentityNotFound; two or more matches is an
// integrity failure, not a hit.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (Identity, error)
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByPhone(ctx context.Context, phone string) (Identity, error)
	FindByIdentifier(ctx context.Context, identifier string) (Identity, error)

	// Unlocked variants filter on the locked flag at query time.
	FindUnlockedByUsername(ctx context.Context, username string) (Identity, error)
	FindUnlockedByEmail(ctx context.Context, email string) (Identity, error)
	FindUnlockedByPhone(ctx context.Context, phone string) (Identity, error)

	FindLockedByUsername(ctx context.Context, username string) (Identity, error)

	VerifyPassword(ctx context.Context, identifier, password string) (Identity, error)
}

// OTPVerifier checks a one-time passcode for a given user against whatever
// backend issued it. Implementations live outside this package.
type OTPVerifier interface {
	VerifyCode(ctx context.Context, userID, code string) (OTPOutcome, error)
}

// OTPOutcome is the verdict of an external OTP check.
type OTPOutcome int

const (
	OTPInvalid OTPOutcome = iota
	OTPValid
	OTPExpired
)

// TokenIssuer mints signed tokens for an authenticated identity.
type TokenIssuer interface {
	Issue(identity Identity) (string, time.Time, error)
}
