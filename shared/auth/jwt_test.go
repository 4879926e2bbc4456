package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret"

func newTestAuthenticator() JWTAuthenticator {
	return NewJWTAuthenticator("account-api", "account-api")
}

func newTestClaims(expiresIn time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    "account-api",
		Audience:  jwt.ClaimStrings{"account-api"},
		Subject:   "user-123",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	jwtAuth := newTestAuthenticator()

	tokenStr, err := jwtAuth.GenerateToken(newTestClaims(time.Hour), testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims := &jwt.RegisteredClaims{}
	_, err = jwtAuth.ValidateTokenWithClaims(tokenStr, testSecret, claims)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestValidateToken_Expired(t *testing.T) {
	jwtAuth := newTestAuthenticator()

	tokenStr, err := jwtAuth.GenerateToken(newTestClaims(-time.Minute), testSecret)
	require.NoError(t, err)

	_, err = jwtAuth.ValidateTokenWithClaims(tokenStr, testSecret, &jwt.RegisteredClaims{})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	jwtAuth := newTestAuthenticator()

	tokenStr, err := jwtAuth.GenerateToken(newTestClaims(time.Hour), testSecret)
	require.NoError(t, err)

	_, err = jwtAuth.ValidateTokenWithClaims(tokenStr, "another-secret", &jwt.RegisteredClaims{})
	assert.Error(t, err)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	jwtAuth := newTestAuthenticator()

	claims := newTestClaims(time.Hour)
	claims.Issuer = "somebody-else"

	tokenStr, err := jwtAuth.GenerateToken(claims, testSecret)
	require.NoError(t, err)

	_, err = jwtAuth.ValidateTokenWithClaims(tokenStr, testSecret, &jwt.RegisteredClaims{})
	assert.Error(t, err)
}

func TestValidateToken_Malformed(t *testing.T) {
	jwtAuth := newTestAuthenticator()

	_, err := jwtAuth.ValidateTokenWithClaims("not.a.jwt", testSecret, &jwt.RegisteredClaims{})
	assert.Error(t, err)
}
