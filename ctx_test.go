package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/customer-auth"
	"github.com/stretchr/testify/assert"
)

func TestClaimsContext(t *testing.T) {
	claims := issuedClaims(t, "customer")

	ctx := auth.WithClaimsContext(context.Background(), claims)

	got, ok := auth.GetClaims(ctx)
	assert.True(t, ok)
	assert.Equal(t, claims.UserID(), got.UserID())

	_, ok = auth.GetClaims(context.Background())
	assert.False(t, ok)
}

func TestGetRouterClaims(t *testing.T) {
	claims := issuedClaims(t, "customer")

	t.Run("default key", func(t *testing.T) {
		ctx := newFakeContext("GET", "/api/v1/me")
		ctx.Locals(auth.ContextKey, claims)

		got, ok := auth.GetRouterClaims(ctx, "")
		assert.True(t, ok)
		assert.Equal(t, claims.UserID(), got.UserID())
		assert.True(t, auth.IsAuthenticated(ctx))
	})

	t.Run("custom key", func(t *testing.T) {
		ctx := newFakeContext("GET", "/api/v1/me")
		ctx.Locals("principal", claims)

		got, ok := auth.GetRouterClaims(ctx, "principal")
		assert.True(t, ok)
		assert.NotNil(t, got)
	})

	t.Run("absent claims", func(t *testing.T) {
		ctx := newFakeContext("GET", "/api/v1/me")

		_, ok := auth.GetRouterClaims(ctx, "")
		assert.False(t, ok)
		assert.False(t, auth.IsAuthenticated(ctx))
	})

	t.Run("wrong type under the key", func(t *testing.T) {
		ctx := newFakeContext("GET", "/api/v1/me")
		ctx.Locals(auth.ContextKey, "not claims")

		_, ok := auth.GetRouterClaims(ctx, "")
		assert.False(t, ok)
	})
}
