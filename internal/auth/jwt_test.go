package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func newTestIssuer(_ *testing.T) *TokenIssuer {
	return NewTokenIssuer(&config.JWTConfig{
		Secret:                    testSecret,
		ExpirationHours:           24,
		PersistentExpirationHours: 720,
	})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)

	token, claims, err := issuer.Issue("user-1", types.RoleRecruiter, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3, "header, payload and signature")
	assert.NotEmpty(t, claims.ID, "token id is needed for revocation")

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.GetUserID())
	assert.Equal(t, types.RoleRecruiter, parsed.GetRole())
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestTokenIssuer_PersistentExpiry(t *testing.T) {
	issuer := newTestIssuer(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	_, short, err := issuer.Issue("u", types.RoleApplier, false)
	require.NoError(t, err)
	_, long, err := issuer.Issue("u", types.RoleApplier, true)
	require.NoError(t, err)

	assert.Equal(t, now.Add(24*time.Hour), short.ExpiresAt.Time)
	assert.Equal(t, now.Add(720*time.Hour), long.ExpiresAt.Time)
	assert.True(t, long.Persistent)
}

func TestTokenIssuer_ParseRejects(t *testing.T) {
	issuer := newTestIssuer(t)
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }
	expiredToken, _, err := issuer.Issue("u", types.RoleApplier, false)
	require.NoError(t, err)
	issuer.now = func() time.Time { return issued.Add(25 * time.Hour) }

	other := NewTokenIssuer(&config.JWTConfig{Secret: "another-secret", ExpirationHours: 1, PersistentExpirationHours: 1})
	foreign, _, err := other.Issue("u", types.RoleApplier, false)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{"empty", "", "no token"},
		{"garbage", "not.a.token", "malformed"},
		{"expired", expiredToken, "expired"},
		{"wrong secret", foreign, "bad signature"},
		{"alg none", noneToken, "unparseable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Parse(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
