package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-router"
)

var defaultTokenLookup = "header:" + router.HeaderAuthorization

// ErrorContextKey is the locals key the filter records a validation failure
// under. The entry point reads it to tell an expired token from a tampered
// one when it writes the challenge.
const ErrorContextKey = "auth_error"

// FilterConfig configures the token filter.
type FilterConfig struct {
	// Validator checks extracted tokens. Required.
	Validator TokenValidator

	// ContextKey is the locals key claims are stored under.
	ContextKey string

	// TokenLookup is a comma separated list of sources, e.g.
	// "header:Authorization,query:auth_token,cookie:jwt".
	TokenLookup string

	// AuthScheme is the expected prefix on header extraction.
	AuthScheme string

	// Skip short-circuits the filter for matching requests.
	Skip func(router.Context) bool

	// ContextEnricher propagates claims to the standard Go context after a
	// successful validation.
	ContextEnricher func(c context.Context, claims AuthClaims) context.Context

	Logger Logger
}

// TokenFilter returns pass-through middleware that extracts a bearer token,
// validates it, and attaches the resulting claims to the request. It never
// rejects: an absent, expired, or tampered token simply leaves the request
// anonymous and lets downstream authorization decide what that means.
func TokenFilter(config ...FilterConfig) router.MiddlewareFunc {
	cfg := getFilterConfig(config...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil || raw == "" {
				// no credential presented, proceed anonymous
				return ctx.Next()
			}

			claims, err := cfg.Validator.Validate(raw)
			if err != nil {
				cfg.Logger.Debug("token validation failed", "path", ctx.Path(), "error", err)
				ctx.Locals(cfg.ContextKey, nil)
				ctx.Locals(ErrorContextKey, err)
				return ctx.Next()
			}

			ctx.Locals(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				stdCtx := ctx.Context()
				ctx.SetContext(cfg.ContextEnricher(stdCtx, claims))
			}

			return ctx.Next()
		}
	}
}

func getFilterConfig(config ...FilterConfig) (cfg FilterConfig) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("AUTH: token filter configuration: Validator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = ContextKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = WithClaimsContext
	}

	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	return cfg
}

func (cfg *FilterConfig) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// TokenExtractor pulls a raw token out of a request source.
type TokenExtractor func(c router.Context) (string, error)

// ExtractRawTokenFromContext tries each extractor in order and returns the
// first non-empty hit.
func ExtractRawTokenFromContext(ctx router.Context, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

// GetExtractors parses a token lookup definition into extractors.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

// tokenFromHeader returns a function that extracts token from the request header.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		l := len(authScheme)
		if l == 0 {
			return "", ErrTokenMalformed
		}
		authScheme = strings.TrimSpace(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrTokenMalformed
	}
}

// tokenFromQuery returns a function that extracts token from the query string.
func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrTokenMalformed
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts token from the named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrTokenMalformed
		}
		return token, nil
	}
}
