package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Random sizes in bytes before encoding.
const (
	keyIDSize  = 16
	secretSize = 32
)

// RefreshToken is a freshly minted refresh token. Opaque goes to the client
// once; only Fingerprint is stored.
type RefreshToken struct {
	Opaque      string
	Fingerprint string
}

// NewRefreshToken mints a 256-bit refresh token.
func NewRefreshToken() (RefreshToken, error) {
	opaque, err := randomString(secretSize)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Opaque: opaque, Fingerprint: FingerprintToken(opaque)}, nil
}

// NewOobCode mints a 256-bit out-of-band code for verification and reset
// emails.
func NewOobCode() (string, error) {
	return randomString(secretSize)
}

// NewKeyID mints a signing key id.
func NewKeyID() (string, error) {
	return randomString(keyIDSize)
}

// FingerprintToken returns the SHA-256 fingerprint of a token, so a leaked
// database cannot be replayed.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomString(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
