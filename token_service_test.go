package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/morrowern/go-authkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildClaims(t *testing.T, roles ...string) *auth.ClaimSet {
	t.Helper()
	identity := testIdentity{
		id:       "e8b7c4a4-9e4c-4f41-8b36-6b2a8f1de111",
		username: "annlee",
		email:    "ann@x.com",
	}
	set, err := auth.BuildClaims(identity, roles, nil)
	require.NoError(t, err)
	return set
}

func TestTokenService_Sign(t *testing.T) {
	cfg := testConfig()
	service := auth.NewTokenServiceFromConfig(cfg, nil)

	t.Run("produces a compact three segment token", func(t *testing.T) {
		issued, err := service.Sign(buildClaims(t, "User"), time.Now())
		require.NoError(t, err)

		assert.NotEmpty(t, issued.Token)
		assert.Len(t, strings.Split(issued.Token, "."), 3)
	})

	t.Run("expiry is issued at plus the configured days", func(t *testing.T) {
		issuedAt := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

		issued, err := service.Sign(buildClaims(t, "User"), issuedAt)
		require.NoError(t, err)

		want := issuedAt.Add(time.Duration(cfg.GetTokenDurationDays()) * 24 * time.Hour)
		assert.True(t, issued.ExpiresAt.Equal(want))
	})

	t.Run("zero issued at defaults to now", func(t *testing.T) {
		before := time.Now()
		issued, err := service.Sign(buildClaims(t, "User"), time.Time{})
		require.NoError(t, err)

		assert.False(t, issued.ExpiresAt.Before(before.Add(time.Duration(cfg.GetTokenDurationDays())*24*time.Hour)))
	})

	t.Run("embeds issuer, audience and identity claims", func(t *testing.T) {
		issued, err := service.Sign(buildClaims(t, "User", "Admin"), time.Now())
		require.NoError(t, err)

		payload := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(issued.Token, payload, func(t *jwt.Token) (any, error) {
			return []byte(cfg.GetSigningKey()), nil
		})
		require.NoError(t, err)

		assert.Equal(t, cfg.GetIssuer(), payload["iss"])
		assert.Equal(t, cfg.GetAudience()[0], payload["aud"])
		assert.Equal(t, "annlee", payload["sub"])
		assert.Equal(t, "ann@x.com", payload["email"])
		assert.Equal(t, []any{"User", "Admin"}, payload["role"])
	})

	t.Run("nil claim set is rejected", func(t *testing.T) {
		_, err := service.Sign(nil, time.Now())
		assert.Error(t, err)
	})

	t.Run("empty signing key is rejected", func(t *testing.T) {
		bare := auth.NewTokenService(nil, 7, "iss", nil, nil)

		_, err := bare.Sign(buildClaims(t, "User"), time.Now())
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrSigningKeyMissing)
	})
}

func TestTokenService_Validate(t *testing.T) {
	cfg := testConfig()
	service := auth.NewTokenServiceFromConfig(cfg, nil)

	sign := func(t *testing.T) string {
		t.Helper()
		issued, err := service.Sign(buildClaims(t, "User"), time.Now())
		require.NoError(t, err)
		return issued.Token
	}

	t.Run("round trips a freshly issued token", func(t *testing.T) {
		claims, err := service.Validate(sign(t))
		require.NoError(t, err)

		assert.Equal(t, "annlee", claims.Subject())
		assert.Equal(t, cfg.GetIssuer(), claims.Issuer())
		assert.Equal(t, []string{"User"}, claims.Roles())
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		token := sign(t)
		tampered := token[:len(token)-2] + "xx"

		_, err := service.Validate(tampered)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("rejects a token signed with a different key", func(t *testing.T) {
		other := auth.NewTokenService([]byte("other-key"), 7, cfg.GetIssuer(), cfg.GetAudience(), nil)
		issued, err := other.Sign(buildClaims(t, "User"), time.Now())
		require.NoError(t, err)

		_, err = service.Validate(issued.Token)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		issuedAt := time.Now().Add(-30 * 24 * time.Hour)
		issued, err := service.Sign(buildClaims(t, "User"), issuedAt)
		require.NoError(t, err)

		_, err = service.Validate(issued.Token)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("rejects the wrong issuer", func(t *testing.T) {
		other := auth.NewTokenService([]byte(cfg.GetSigningKey()), 7, "someone-else", cfg.GetAudience(), nil)
		issued, err := other.Sign(buildClaims(t, "User"), time.Now())
		require.NoError(t, err)

		_, err = service.Validate(issued.Token)
		assert.Error(t, err)
	})

	t.Run("rejects the wrong audience", func(t *testing.T) {
		other := auth.NewTokenService([]byte(cfg.GetSigningKey()), 7, cfg.GetIssuer(), jwt.ClaimStrings{"other:aud"}, nil)
		issued, err := other.Sign(buildClaims(t, "User"), time.Now())
		require.NoError(t, err)

		_, err = service.Validate(issued.Token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		_, err := service.Validate("not.a.token")
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})
}
