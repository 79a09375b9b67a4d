package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateJWTToken("03001234567", "USER")
	require.NoError(t, err)

	claims, err := VerifyJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "03001234567", claims["sub"])
	assert.Equal(t, "USER", claims["role"])
}

func TestGenerateRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWTToken("03001234567", "USER")
	assert.Error(t, err)
}

func TestVerifyRejectsEmptyKeyTokenWhenSecretUnset(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	// An attacker who knows the secret is unset signs an admin token with
	// the empty HMAC key. Verification must refuse it rather than accept.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "03009999999",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
		"role": "ADMIN",
	})
	tokenString, err := forged.SignedString([]byte(""))
	require.NoError(t, err)

	_, err = VerifyJWTToken(tokenString)
	assert.Error(t, err)
}

func TestSecretPickedUpAfterStartup(t *testing.T) {
	// The secret may only appear in the environment after the process
	// starts (a .env file loaded during bootstrap). Tokens issued before
	// the secret exists must fail, tokens issued after must work.
	t.Setenv("JWT_SECRET", "")
	_, err := GenerateJWTToken("03001234567", "USER")
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "late-loaded-secret")
	token, err := GenerateJWTToken("03001234567", "USER")
	require.NoError(t, err)

	claims, err := VerifyJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "03001234567", claims["sub"])
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateJWTToken("03001234567", "USER")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = VerifyJWTToken(token)
	assert.Error(t, err)
}
