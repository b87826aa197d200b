// Package auth resolves bearer tokens to verified identities. Token issuance
// lives with the external identity provider; the server only validates.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// Verifier turns a bearer token into a caller identity.
type Verifier interface {
	Verify(token string) (application.Identity, error)
}

// Claims carries the identity fields embedded in provider tokens.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HMAC-signed provider tokens. The subject claim is
// the member's auth UID.
type JWTVerifier struct {
	secretKey []byte
	issuer    string
}

// NewJWTVerifier creates a verifier for tokens signed with secretKey. If
// issuer is non-empty the token's iss claim must match it.
func NewJWTVerifier(secretKey, issuer string) *JWTVerifier {
	return &JWTVerifier{secretKey: []byte(secretKey), issuer: issuer}
}

// Verify parses and validates a token, returning the caller identity.
func (v *JWTVerifier) Verify(tokenString string) (application.Identity, error) {
	if tokenString == "" {
		return application.Identity{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secretKey, nil
		},
		opts...,
	)
	if err != nil {
		return application.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return application.Identity{}, ErrInvalidToken
	}

	return application.Identity{
		UID:   claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
