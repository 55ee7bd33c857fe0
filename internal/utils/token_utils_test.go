package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("device-7", "device", "secret", time.Hour, "campus-fare-ledger")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret", "campus-fare-ledger")
	require.NoError(t, err)
	assert.Equal(t, "device-7", claims.Subject)
	assert.Equal(t, "device", claims.Role)
	assert.Equal(t, "campus-fare-ledger", claims.Issuer)

	_, err = ParseAndValidateJWT(token, "other-secret", "campus-fare-ledger")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	expired, err := GenerateJWT("D1", "driver", "secret", -time.Minute, "")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noRole, err := GenerateJWT("D1", "", "secret", time.Hour, "")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(noRole, "secret", "")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)
}
