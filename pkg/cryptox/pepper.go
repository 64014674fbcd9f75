package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Argon2id parameters for stored password hashes.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile = filepath.Join("data", "pepper")
)

// SetPepperPath sets the file the pepper is loaded from and forgets any
// pepper already in memory.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// LoadPepper reads the pepper from disk, generating and persisting a new
// one on first use. Call it at startup so a broken data directory fails
// fast instead of on the first sign-up.
func LoadPepper() error {
	_, err := getPepper()
	return err
}

func getPepper() (string, error) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper != "" {
		return pepper, nil
	}

	p, err := loadOrGeneratePepper(filepath.Clean(pepperFile))
	if err != nil {
		return "", fmt.Errorf("cryptox: pepper: %w", err)
	}
	pepper = p
	return pepper, nil
}

func loadOrGeneratePepper(file string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return "", err
	}

	existing, err := os.ReadFile(file) // #nosec G304 - path comes from operator config
	if err == nil {
		return string(existing), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	generated := base64.RawURLEncoding.EncodeToString(buf)
	if err := os.WriteFile(file, []byte(generated), 0o600); err != nil {
		return "", err
	}
	return generated, nil
}
