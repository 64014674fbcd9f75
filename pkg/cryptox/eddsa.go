package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// SigningKey is an ID-token signing key. PEM holds the Ed25519 private key
// in PKCS8, the format jwtx.NewSignerEdDSA expects.
type SigningKey struct {
	KID string
	PEM []byte
}

// NewSigningKey generates an Ed25519 key with a random key id. The key lives
// only in memory; the emulator never persists signing keys.
func NewSigningKey() (SigningKey, error) {
	kid, err := NewKeyID()
	if err != nil {
		return SigningKey{}, err
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: generate Ed25519 key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: marshal PKCS8 key: %w", err)
	}

	return SigningKey{
		KID: kid,
		PEM: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}),
	}, nil
}
