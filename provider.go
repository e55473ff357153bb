package auth

import (
	"context"
)

// CredentialKind names the kind of secret a login attempt carries.
type CredentialKind string

const (
	// CredentialPassword is a long-lived password credential
	CredentialPassword CredentialKind = "password"
	// CredentialOTP is a one-time passcode credential
	CredentialOTP CredentialKind = "otp"
)

// Candidate is an unauthenticated login attempt: an identifier plus one
// secret. Which secret field is set depends on Kind.
type Candidate struct {
	Kind       CredentialKind
	Identifier string
	Password   string
	Code       string
}

// CredentialVerifier checks one kind of credential. A verifier offered a
// candidate of a kind it does not handle returns ErrVerifierNotApplicable so
// the chain can move on; any other error is a real rejection.
type CredentialVerifier interface {
	Kind() CredentialKind
	Verify(ctx context.Context, candidate Candidate) (Identity, error)
}

// lockedAwareIdentity is implemented by identities that carry the account
// lock flag.
type lockedAwareIdentity interface {
	Locked() bool
}

func identityLocked(identity Identity) bool {
	if identity == nil {
		return false
	}
	if la, ok := identity.(lockedAwareIdentity); ok {
		return la.Locked()
	}
	return false
}
