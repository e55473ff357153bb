package auth

import (
	"context"
	"reflect"
	"time"

	"github.com/goliatone/go-errors"
)

// Auther runs login attempts through an ordered list of credential verifiers
// and mints a token for the first one that accepts. The verifier order is
// fixed at construction; password first, OTP second in the default wiring.
type Auther struct {
	verifiers    []CredentialVerifier
	signingKey   []byte
	logger       Logger
	tokenService TokenService
}

// LoginResult is a successful authentication outcome.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// NewAuthenticator returns a new Auther with the given verifier chain.
func NewAuthenticator(opts Config, verifiers ...CredentialVerifier) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	chain := make([]CredentialVerifier, 0, len(verifiers))
	for _, v := range verifiers {
		if v != nil {
			chain = append(chain, v)
		}
	}

	return &Auther{
		verifiers:    chain,
		signingKey:   []byte(opts.GetSigningKey()),
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService swaps the token service, mostly useful in tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login runs the candidate through the verifier chain. The first verifier to
// accept wins and the rest are never consulted. Verifiers that do not handle
// the candidate's credential kind are skipped. If every applicable verifier
// rejects, the individual failures are folded into a single
// ErrAuthenticationFailed; callers never see which step failed.
func (s *Auther) Login(ctx context.Context, candidate Candidate) (*LoginResult, error) {
	if len(s.verifiers) == 0 {
		return nil, errors.New("no credential verifiers configured", errors.CategoryInternal)
	}

	var failures []error
	applicable := 0

	for _, verifier := range s.verifiers {
		identity, err := verifier.Verify(ctx, candidate)
		if err != nil {
			if errors.Is(err, ErrVerifierNotApplicable) {
				continue
			}
			applicable++
			s.logger.Debug("verifier rejected candidate",
				"kind", string(verifier.Kind()),
				"error", err,
			)
			failures = append(failures, err)
			continue
		}

		applicable++
		if identity == nil || reflect.ValueOf(identity).IsZero() {
			s.logger.Error("verifier returned nil identity", "kind", string(verifier.Kind()))
			failures = append(failures, ErrIdentityNotFound)
			continue
		}

		return s.issue(identity)
	}

	if applicable == 0 {
		s.logger.Warn("no verifier applicable for candidate", "kind", string(candidate.Kind))
		return nil, ErrAuthenticationFailed
	}

	s.logger.Warn("authentication failed",
		"kind", string(candidate.Kind),
		"rejections", len(failures),
	)

	return nil, aggregateFailures(failures)
}

// Validate delegates to the token service.
func (s *Auther) Validate(tokenString string) (AuthClaims, error) {
	return s.tokenService.Validate(tokenString)
}

func (s *Auther) issue(identity Identity) (*LoginResult, error) {
	token, expiresAt, err := s.tokenService.Issue(identity)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
	}, nil
}

// aggregateFailures collapses verifier rejections into the uniform login
// failure. The underlying causes ride along as metadata for logs, not for
// clients.
func aggregateFailures(failures []error) error {
	reasons := make([]string, 0, len(failures))
	for _, f := range failures {
		var rich *errors.Error
		if errors.As(f, &rich) && rich.TextCode != "" {
			reasons = append(reasons, rich.TextCode)
			continue
		}
		reasons = append(reasons, f.Error())
	}

	return errors.New(ErrAuthenticationFailed.Message, ErrAuthenticationFailed.Category).
		WithTextCode(ErrAuthenticationFailed.TextCode).
		WithCode(errors.CodeUnauthorized).
		WithMetadata(map[string]any{
			"rejections": reasons,
		})
}
