package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced in client-facing error payloads. They are stable wire
// contract values; the messages next to them are not.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeAuthFailed         = "AUTHENTICATION_FAILED"
	TextCodeAccountLocked      = "ACCOUNT_LOCKED"
	TextCodeOTPExpired         = "OTP_EXPIRED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenTampered      = "TOKEN_TAMPERED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	TextCodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeClaimsMappingError = "CLAIMS_MAPPING_ERROR"
)

// ErrIdentityNotFound is returned by the user directory when an identifier
// resolves to no user. Providers must not let it reach clients; they collapse
// it into ErrMismatchedHashAndPassword.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrDuplicateIdentity signals a data-integrity violation: more than one user
// matched a single identifier. Uniqueness is enforced upstream, so this is
// never a normal outcome.
var ErrDuplicateIdentity = errors.New("identifier matched more than one user", errors.CategoryInternal).
	WithTextCode(TextCodeDuplicateIdentity).
	WithCode(errors.CodeInternal)

// ErrMismatchedHashAndPassword covers both a wrong secret and an unresolved
// identifier, deliberately: the two paths must be indistinguishable to the
// caller to prevent account enumeration.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrAccountLocked blocks authentication for locked users. It never surfaces
// past the Auther; clients see the aggregate failure.
var ErrAccountLocked = errors.New("account is locked", errors.CategoryAuth).
	WithTextCode(TextCodeAccountLocked).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedOTP is the OTP analogue of a wrong password.
var ErrMismatchedOTP = errors.New("the passcode provided is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrOTPExpired is returned when the external verifier reports a stale code.
var ErrOTPExpired = errors.New("the passcode has expired", errors.CategoryAuth).
	WithTextCode(TextCodeOTPExpired).
	WithCode(errors.CodeUnauthorized)

// ErrAuthenticationFailed is the aggregate failure produced when every
// applicable verifier has rejected a candidate. It is the only login failure
// clients ever see.
var ErrAuthenticationFailed = errors.New("authentication failed", errors.CategoryAuth).
	WithTextCode(TextCodeAuthFailed).
	WithCode(errors.CodeUnauthorized)

// ErrVerifierNotApplicable signals that a verifier was offered a candidate of
// a credential kind it does not handle; the Auther skips to the next verifier.
var ErrVerifierNotApplicable = errors.New("credential kind not handled by this verifier", errors.CategoryOperation)

// ErrTokenExpired is returned when a structurally valid token is past its
// expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenTampered is returned when the signature does not verify against the
// signing key. Checked before expiry: a tampered token is never reported as
// merely expired.
var ErrTokenTampered = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenTampered).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers tokens that do not parse at all.
var ErrTokenMalformed = errors.New("missing or malformed token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims covers tokens whose claims cannot be decoded into our
// structured form.
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithTextCode(TextCodeClaimsMappingError).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens, including legacy string
// matches coming out of the JWT parser.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsTamperedError will check for signature failures.
func IsTamperedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenTampered) {
		return true
	}
	return strings.Contains(err.Error(), "signature is invalid")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}
