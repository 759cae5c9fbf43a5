package identity

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passreg/internal/activity"
	adminservice "passreg/internal/admin/service"
	adminstore "passreg/internal/admin/store"
	dErrors "passreg/pkg/domain-errors"
)

const signingKey = "test-signing-key"

func newResolver(t *testing.T) (*JWTResolver, *adminservice.Service) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	svc := adminservice.New(adminstore.NewInMemory(), activity.NewPublisher(activity.NewInMemoryStore(), logger))
	return NewJWTResolver(signingKey, svc), svc
}

func mintToken(t *testing.T, key string, claims Claims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestResolveCreatesAccountOnFirstAuthentication(t *testing.T) {
	resolver, _ := newResolver(t)

	req := httptest.NewRequest("GET", "/api/people", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, signingKey, Claims{Email: "first@example.com", Name: "First"}))

	ident, err := resolver.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", ident.Email)
	assert.True(t, ident.IsMainAdmin, "very first account becomes main admin")
	assert.True(t, ident.IsActive)

	// Re-authentication resolves to the same account.
	again, err := resolver.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, ident.AdminID, again.AdminID)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	resolver, _ := newResolver(t)

	cases := map[string]string{
		"missing header":  "",
		"wrong key":       "Bearer " + mintToken(t, "other-key", Claims{Email: "x@example.com"}),
		"garbage token":   "Bearer not.a.jwt",
		"no email claim":  "Bearer " + mintToken(t, signingKey, Claims{Name: "Anonymous"}),
		"not bearer form": mintToken(t, signingKey, Claims{Email: "x@example.com"}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/people", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			_, err := resolver.Resolve(context.Background(), req)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})
	}
}

func TestResolveRejectsExpiredToken(t *testing.T) {
	resolver, _ := newResolver(t)

	claims := Claims{Email: "late@example.com"}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	req := httptest.NewRequest("GET", "/api/people", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, signingKey, claims))

	_, err := resolver.Resolve(context.Background(), req)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
