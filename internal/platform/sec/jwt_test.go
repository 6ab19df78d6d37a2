// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tapledger/internal/platform/sec"
)

func signToken(t *testing.T, key *rsa.PrivateKey, issuer string, expiresIn time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		UserID:   "user-1",
		Username: "ledger-admin",
		Role:     string(sec.RoleAdmin),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

/*
TestTokenService_VerifyToken covers the accepted and rejected token shapes.
*/
func TestTokenService_VerifyToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier := sec.NewTokenServiceFromKey(&key.PublicKey, "tapledger")

	t.Run("valid_token", func(t *testing.T) {
		claims, err := verifier.VerifyToken(signToken(t, key, "tapledger", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("expired_token", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, key, "tapledger", -time.Minute))
		assert.Error(t, err)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, key, "someone-else", time.Hour))
		assert.Error(t, err)
	})

	t.Run("foreign_signature", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, otherKey, "tapledger", time.Hour))
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.VerifyToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("ghost").AtLeast(sec.RoleUser))
}
