package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/idtoolkit/pkg/cryptox"
)

// KeyManager owns the ID token signing keys for one emulator instance.
// Keys are generated at startup and only exist in memory, so every issued
// ID token becomes unverifiable when the process restarts. Refresh tokens
// are stored and survive, which lets clients recover by refreshing.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures NewEphemeralKeyManager.
type KeyManagerOptions struct {
	// ProjectID determines the issuer and audience of issued tokens.
	ProjectID string

	// NumKeys is how many signing keys to generate, between 1 and 10.
	// Defaults to 2.
	NumKeys int
}

// NewEphemeralKeyManager generates fresh Ed25519 signing keys and wires them
// into a KeySet and a project-scoped Verifier.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("jwtx: ProjectID is required")
	}

	numKeys := opts.NumKeys
	if numKeys <= 0 {
		numKeys = 2
	}
	if numKeys > 10 {
		numKeys = 10
	}

	km := &KeyManager{KeySet: NewKeySet()}
	km.Verifier = NewProjectVerifier(km.KeySet, opts.ProjectID)

	for i := range numKeys {
		signer, err := generateSigner()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate signer %d: %w", i+1, err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}
	return km, nil
}

func generateSigner() (Signer, error) {
	key, err := cryptox.NewSigningKey()
	if err != nil {
		return nil, err
	}
	return NewSignerEdDSA(key.KID, key.PEM)
}

// IsReady returns true if the KeyManager has keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a randomly selected signer so issued tokens exercise
// kid-based key lookup on the verifying side.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner adds a signing key to both the active signers and the KeySet.
func (km *KeyManager) AddSigner(signer Signer) error {
	if signer == nil {
		return fmt.Errorf("jwtx: signer cannot be nil")
	}
	if err := signer.Validate(); err != nil {
		return err
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, signer)
	return nil
}

// Rotate generates a fresh signing key and makes it the only one used for
// new tokens. Retired public keys stay in the KeySet, so tokens already
// issued keep verifying until they expire. It returns the new kid.
func (km *KeyManager) Rotate() (string, error) {
	signer, err := generateSigner()
	if err != nil {
		return "", fmt.Errorf("jwtx: generate signer: %w", err)
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return "", fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}
	km.signers = []Signer{signer}
	return signer.KID(), nil
}
