package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func baseClaims(subject string) Claims {
	return Claims{
		Name:  "Priya S",
		Email: "priya@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify(t *testing.T) {
	verifier := NewJWTVerifier(testSecret, "")

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, baseClaims("uid-1"))
		identity, err := verifier.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "uid-1", identity.UID)
		require.Equal(t, "priya@example.com", identity.Email)
		require.Equal(t, "Priya S", identity.Name)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := verifier.Verify("")
		require.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, "other-secret", baseClaims("uid-1"))
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := baseClaims("uid-1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		token := signToken(t, jwt.SigningMethodHS256, testSecret, claims)
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, baseClaims(""))
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		claims := baseClaims("uid-1")
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerifyIssuer(t *testing.T) {
	verifier := NewJWTVerifier(testSecret, "kattunar")

	claims := baseClaims("uid-1")
	claims.Issuer = "kattunar"
	token := signToken(t, jwt.SigningMethodHS256, testSecret, claims)
	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "uid-1", identity.UID)

	claims.Issuer = "someone-else"
	token = signToken(t, jwt.SigningMethodHS256, testSecret, claims)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
