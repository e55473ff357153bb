package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// OTPCredentialVerifier checks one-time passcode candidates. The codes
// themselves live behind an external OTPVerifier; this verifier only resolves
// the account and enforces the lock.
type OTPCredentialVerifier struct {
	directory UserDirectory
	codes     OTPVerifier
	logger    Logger
}

// NewOTPCredentialVerifier will create a new OTPCredentialVerifier
func NewOTPCredentialVerifier(directory UserDirectory, codes OTPVerifier) *OTPCredentialVerifier {
	return &OTPCredentialVerifier{
		directory: directory,
		codes:     codes,
		logger:    defLogger{},
	}
}

func (p *OTPCredentialVerifier) WithLogger(l Logger) *OTPCredentialVerifier {
	if l != nil {
		p.logger = l
	}
	return p
}

var _ CredentialVerifier = (*OTPCredentialVerifier)(nil)

func (p *OTPCredentialVerifier) Kind() CredentialKind {
	return CredentialOTP
}

// Verify resolves the candidate identifier and checks the passcode with the
// OTP backend. An unknown identifier fails exactly like a wrong code.
func (p *OTPCredentialVerifier) Verify(ctx context.Context, candidate Candidate) (Identity, error) {
	if candidate.Kind != CredentialOTP {
		return nil, ErrVerifierNotApplicable
	}

	if candidate.Code == "" {
		return nil, ErrMismatchedOTP
	}

	identity, err := p.directory.FindByIdentifier(ctx, candidate.Identifier)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrMismatchedOTP
		}
		return nil, err
	}

	if identityLocked(identity) {
		return nil, ErrAccountLocked
	}

	outcome, err := p.codes.VerifyCode(ctx, identity.ID(), candidate.Code)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "otp backend verification failed")
	}

	switch outcome {
	case OTPValid:
		return identity, nil
	case OTPExpired:
		return nil, ErrOTPExpired
	default:
		return nil, ErrMismatchedOTP
	}
}
