package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates an ID token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// maxSubjectLength bounds the "sub" claim, which is the account id.
const maxSubjectLength = 128

// ProjectVerifier accepts EdDSA ID tokens issued for one project and signed
// by a key in its KeySet.
type ProjectVerifier struct {
	keys      *KeySet
	projectID string
}

// NewProjectVerifier returns a Verifier for ID tokens of projectID.
func NewProjectVerifier(keys *KeySet, projectID string) *ProjectVerifier {
	return &ProjectVerifier{keys: keys, projectID: projectID}
}

// Verify checks the signature, then the issuer, audience and lifetime, then
// the account claims: sub must be a non-empty account id and auth_time must
// not lie in the future.
func (v *ProjectVerifier) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, v.keyFunc)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", ErrAlgMismatch, err)
		}
		return nil, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(IssuerFor(v.projectID)); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience([]string{v.projectID}); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return nil, err
	}

	if claims.Subject == "" || len(claims.Subject) > maxSubjectLength {
		return nil, fmt.Errorf("%w: sub", ErrInvalidClaim)
	}
	if claims.AuthTime > time.Now().Unix() {
		return nil, fmt.Errorf("%w: auth_time in the future", ErrInvalidClaim)
	}
	return claims, nil
}

func (v *ProjectVerifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
	}
	pub, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownKID, kid, err)
	}
	return pub, nil
}
