package auth

import (
	"strings"

	"github.com/goliatone/go-router"
)

// AccessRule is one entry in the access policy table. Pattern is an exact
// path or a prefix glob ending in "/**". Public rules admit anonymous
// requests; MinRole, when set, gates authenticated requests by role.
type AccessRule struct {
	Pattern string
	Public  bool
	MinRole UserRole
}

// AccessPolicy is an ordered rule table evaluated first-match-wins. Paths no
// rule matches require authentication: the policy is closed by default.
type AccessPolicy struct {
	rules []AccessRule
}

// NewAccessPolicy builds a policy from rules in evaluation order.
func NewAccessPolicy(rules ...AccessRule) *AccessPolicy {
	return &AccessPolicy{rules: rules}
}

// DefaultAccessPolicy opens the login and API documentation surfaces and
// closes everything else.
func DefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(
		AccessRule{Pattern: "/api/v1/auth/**", Public: true},
		AccessRule{Pattern: "/api/v2/auth/**", Public: true},
		AccessRule{Pattern: "/swagger-ui/**", Public: true},
		AccessRule{Pattern: "/v3/api-docs/**", Public: true},
		AccessRule{Pattern: "/swagger-resources/**", Public: true},
	)
}

// Match returns the first rule whose pattern covers the path.
func (p *AccessPolicy) Match(path string) (AccessRule, bool) {
	for _, rule := range p.rules {
		if matchPattern(rule.Pattern, path) {
			return rule, true
		}
	}
	return AccessRule{}, false
}

// IsPublic reports whether anonymous requests may reach the path.
func (p *AccessPolicy) IsPublic(path string) bool {
	rule, ok := p.Match(path)
	return ok && rule.Public
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}

// RequireAccess returns middleware that enforces an access policy. It runs
// after TokenFilter: the filter attaches claims, this decides, and the entry
// point writes every rejection so clients see one uniform error shape.
func RequireAccess(policy *AccessPolicy, entry *EntryPoint) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			rule, matched := policy.Match(ctx.Path())
			if matched && rule.Public {
				return ctx.Next()
			}

			claims, ok := GetRouterClaims(ctx, "")
			if !ok {
				return entry.Unauthorized(ctx)
			}

			if matched && rule.MinRole != "" && !claims.IsAtLeast(string(rule.MinRole)) {
				return entry.Forbidden(ctx)
			}

			return ctx.Next()
		}
	}
}
