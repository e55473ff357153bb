package auth_test

import (
	"testing"

	auth "github.com/goliatone/customer-auth"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func runFilter(t *testing.T, ctx router.Context) {
	t.Helper()

	mw := auth.TokenFilter(auth.FilterConfig{
		Validator: newTestTokenService(),
	})

	handler := mw(func(c router.Context) error { return nil })
	assert.NoError(t, handler(ctx))
}

func TestTokenFilter_ValidToken(t *testing.T) {
	ts := newTestTokenService()
	identity := testIdentity{id: uuid.NewString(), role: "customer"}
	signed, _, err := ts.Issue(identity)
	assert.NoError(t, err)

	ctx := newFakeContext("GET", "/api/v1/me")
	ctx.headers[router.HeaderAuthorization] = "Bearer " + signed

	runFilter(t, ctx)

	assert.True(t, ctx.nextCalled)

	claims, ok := ctx.Locals(auth.ContextKey).(auth.AuthClaims)
	assert.True(t, ok)
	assert.Equal(t, identity.id, claims.UserID())

	// claims are also propagated to the standard context
	stdClaims, ok := auth.GetClaims(ctx.Context())
	assert.True(t, ok)
	assert.Equal(t, identity.id, stdClaims.UserID())
}

func TestTokenFilter_NoToken(t *testing.T) {
	ctx := newFakeContext("GET", "/api/v1/me")

	runFilter(t, ctx)

	// the filter never rejects, it just leaves the request anonymous
	assert.True(t, ctx.nextCalled)
	assert.Nil(t, ctx.Locals(auth.ContextKey))
	assert.Nil(t, ctx.Locals(auth.ErrorContextKey))
}

func TestTokenFilter_WrongScheme(t *testing.T) {
	ctx := newFakeContext("GET", "/api/v1/me")
	ctx.headers[router.HeaderAuthorization] = "Basic dXNlcjpwYXNz"

	runFilter(t, ctx)

	assert.True(t, ctx.nextCalled)
	assert.Nil(t, ctx.Locals(auth.ContextKey))
}

func TestTokenFilter_ExpiredToken(t *testing.T) {
	signed := expiredToken(t)

	ctx := newFakeContext("GET", "/api/v1/me")
	ctx.headers[router.HeaderAuthorization] = "Bearer " + signed

	runFilter(t, ctx)

	assert.True(t, ctx.nextCalled)
	assert.Nil(t, ctx.Locals(auth.ContextKey))

	// the failure is recorded for the entry point to report
	err, ok := ctx.Locals(auth.ErrorContextKey).(error)
	assert.True(t, ok)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenFilter_TamperedToken(t *testing.T) {
	ts := newTestTokenService()
	signed, _, err := ts.Issue(testIdentity{id: uuid.NewString(), role: "customer"})
	assert.NoError(t, err)

	ctx := newFakeContext("GET", "/api/v1/me")
	ctx.headers[router.HeaderAuthorization] = "Bearer " + flipLastChar(signed)

	runFilter(t, ctx)

	assert.True(t, ctx.nextCalled)
	assert.Nil(t, ctx.Locals(auth.ContextKey))

	err, ok := ctx.Locals(auth.ErrorContextKey).(error)
	assert.True(t, ok)
	assert.ErrorIs(t, err, auth.ErrTokenTampered)
}

func TestTokenFilter_SkipFunc(t *testing.T) {
	ctx := newFakeContext("GET", "/healthz")
	ctx.headers[router.HeaderAuthorization] = "Bearer garbage"

	mw := auth.TokenFilter(auth.FilterConfig{
		Validator: newTestTokenService(),
		Skip: func(c router.Context) bool {
			return c.Path() == "/healthz"
		},
	})

	handler := mw(func(c router.Context) error { return nil })
	assert.NoError(t, handler(ctx))

	assert.True(t, ctx.nextCalled)
	assert.Nil(t, ctx.Locals(auth.ErrorContextKey))
}

func TestTokenFilter_RequiresValidator(t *testing.T) {
	assert.Panics(t, func() {
		auth.TokenFilter()
	})
}
