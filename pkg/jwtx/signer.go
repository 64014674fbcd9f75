package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints ID tokens and exposes the matching verification key.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
	Validate() error
}

// edSigner signs with an Ed25519 key. ID tokens carry the kid header so
// verifiers can pick the key out of the published JWKS.
type edSigner struct {
	kid  string
	priv ed25519.PrivateKey
}

// NewSignerEdDSA parses a PKCS8 PEM Ed25519 private key into a Signer.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	block, _ := pem.Decode(pemKey)
	switch {
	case block == nil:
		return nil, errors.New("jwtx: invalid PEM for signing key")
	case block.Type != "PRIVATE KEY":
		return nil, fmt.Errorf("jwtx: signing key must be a PKCS8 PRIVATE KEY, got %q", block.Type)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse signing key: %w", err)
	}
	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("jwtx: signing key is %T, want Ed25519", parsed)
	}
	return &edSigner{kid: kid, priv: priv}, nil
}

func (s *edSigner) Alg() string { return jwt.SigningMethodEdDSA.Alg() }
func (s *edSigner) KID() string { return s.kid }

func (s *edSigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.priv)
}

func (s *edSigner) PublicJWK() JWK {
	return NewEd25519JWK(s.kid, "sig", s.Alg(), s.priv.Public().(ed25519.PublicKey))
}

func (s *edSigner) Validate() error {
	if s.kid == "" {
		return errors.New("jwtx: signer has no kid")
	}
	if len(s.priv) != ed25519.PrivateKeySize {
		return errors.New("jwtx: invalid Ed25519 private key size")
	}
	return nil
}
