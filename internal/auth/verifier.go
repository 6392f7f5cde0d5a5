package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// ErrRevoked is returned for a credential that was replaced or logged out.
var ErrRevoked = errors.New("token revoked")

// Verifier checks bearer credentials against the signing key and the revocation list.
type Verifier struct {
	jwt    *JWTService
	tokens TokenStoreInterface
}

// NewVerifier creates a verifier. tokens may be nil to skip revocation checks.
func NewVerifier(jwt *JWTService, tokens TokenStoreInterface) *Verifier {
	return &Verifier{jwt: jwt, tokens: tokens}
}

// Verify returns the claims of a valid, unrevoked credential.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := v.jwt.Verify(token)
	if err != nil {
		return nil, err
	}
	if v.tokens != nil && v.tokens.IsRevoked(ctx, claims.TokenID()) {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Authenticate fails closed: any problem with the credential yields nil,
// meaning the caller is anonymous.
func (v *Verifier) Authenticate(ctx context.Context, token string) (claims *Claims) {
	defer func() {
		if recover() != nil {
			claims = nil
		}
	}()
	if token == "" {
		return nil
	}
	c, err := v.Verify(ctx, token)
	if err != nil {
		return nil
	}
	return c
}

// NewResetToken returns 32 random bytes, hex encoded.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
