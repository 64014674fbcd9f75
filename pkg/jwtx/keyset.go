package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds the public halves of the emulator's signing keys in the order
// they were added. It backs both the JWKS endpoint and ID token verification.
// Keys are never removed, so tokens signed by a retired key keep verifying.
type KeySet struct {
	mu      sync.RWMutex
	entries []keyEntry
}

type keyEntry struct {
	jwk JWK
	pub ed25519.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{}
}

// AddSigner publishes the signer's verification key. Each kid may only be
// added once.
func (k *KeySet) AddSigner(s Signer) error {
	jwk := s.PublicJWK()
	pub, err := jwk.PublicKey()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	for _, e := range k.entries {
		if e.jwk.Kid == jwk.Kid {
			return fmt.Errorf("jwtx: duplicate kid %q", jwk.Kid)
		}
	}
	k.entries = append(k.entries, keyEntry{jwk: jwk, pub: pub})
	return nil
}

// Get returns the public key for kid, or ErrNoKey.
func (k *KeySet) Get(kid string) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, e := range k.entries {
		if e.jwk.Kid == kid {
			return e.pub, nil
		}
	}
	return nil, ErrNoKey
}

// PublicJWKS returns a copy of the published keys.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	keys := make([]JWK, 0, len(k.entries))
	for _, e := range k.entries {
		keys = append(keys, e.jwk)
	}
	return JWKS{Keys: keys}
}

// IsReady reports whether at least one key has been published.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.entries) > 0
}
