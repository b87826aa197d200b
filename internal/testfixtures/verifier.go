package testfixtures

import (
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/auth"
)

// StaticVerifier maps bearer tokens to identities for handler tests.
type StaticVerifier map[string]application.Identity

// Verify resolves a token against the static map.
func (v StaticVerifier) Verify(token string) (application.Identity, error) {
	identity, ok := v[token]
	if !ok {
		return application.Identity{}, auth.ErrInvalidToken
	}
	return identity, nil
}
