package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomTokenAudience is the audience a custom token must be minted for.
const CustomTokenAudience = "https://identitytoolkit.googleapis.com/google.identity.identitytoolkit.v1.IdentityToolkit"

// maxCustomTokenTTL is the longest lifetime a custom token may have.
const maxCustomTokenTTL = time.Hour

// CustomClaims are the claims of a custom token minted by a trusted server
// and exchanged by the client for an ID token.
type CustomClaims struct {
	jwt.RegisteredClaims

	// UID is the account id to sign in as, created on first use
	UID string `json:"uid"`

	// Claims are developer claims copied into issued ID tokens
	Claims map[string]any `json:"claims,omitempty"`
}

// SignCustomToken mints an HS256 custom token for uid. The emulator shares
// secret with the trusted server; production backends use service account
// keys instead.
func SignCustomToken(secret []byte, issuer, uid string, ttl time.Duration, now time.Time) (string, error) {
	if uid == "" {
		return "", errors.New("jwtx: custom token requires a uid")
	}
	if ttl <= 0 || ttl > maxCustomTokenTTL {
		ttl = maxCustomTokenTTL
	}

	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   issuer,
			Audience:  jwt.ClaimStrings{CustomTokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID: uid,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyCustomToken checks the signature, audience and expiry of a custom
// token and returns its claims.
func VerifyCustomToken(secret []byte, token string) (*CustomClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(CustomTokenAudience),
		jwt.WithExpirationRequired(),
	)

	var claims CustomClaims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSig, err)
	}
	if claims.UID == "" {
		return nil, ErrInvalidClaim
	}
	return &claims, nil
}
