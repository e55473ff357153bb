package auth

import (
	"context"
)

// PasswordVerifier checks password candidates against the user directory.
// It is the first verifier in the default chain.
type PasswordVerifier struct {
	directory UserDirectory
	logger    Logger
}

// NewPasswordVerifier will create a new PasswordVerifier
func NewPasswordVerifier(directory UserDirectory) *PasswordVerifier {
	return &PasswordVerifier{
		directory: directory,
		logger:    defLogger{},
	}
}

func (p *PasswordVerifier) WithLogger(l Logger) *PasswordVerifier {
	if l != nil {
		p.logger = l
	}
	return p
}

var _ CredentialVerifier = (*PasswordVerifier)(nil)

func (p *PasswordVerifier) Kind() CredentialKind {
	return CredentialPassword
}

// Verify resolves the candidate identifier and compares the password. Unknown
// identifiers and wrong passwords fail identically; see
// Directory.VerifyPassword.
func (p *PasswordVerifier) Verify(ctx context.Context, candidate Candidate) (Identity, error) {
	if candidate.Kind != CredentialPassword {
		return nil, ErrVerifierNotApplicable
	}

	if candidate.Password == "" {
		return nil, ErrNoEmptyString
	}

	identity, err := p.directory.VerifyPassword(ctx, candidate.Identifier, candidate.Password)
	if err != nil {
		p.logger.Debug("password verification rejected candidate", "error", err)
		return nil, err
	}

	return identity, nil
}
