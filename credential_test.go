package adminauth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	adminauth "github.com/harborpay/go-adminauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialExpiryFromJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, ok := adminauth.CredentialExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestCredentialExpiryWithoutExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, ok := adminauth.CredentialExpiry(signed)
	assert.False(t, ok)
}

func TestCredentialExpiryOpaqueToken(t *testing.T) {
	_, ok := adminauth.CredentialExpiry("not-a-jwt-at-all")
	assert.False(t, ok)

	_, ok = adminauth.CredentialExpiry("")
	assert.False(t, ok)
}
