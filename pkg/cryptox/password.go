package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

// MinPasswordLength is the shortest password the backend accepts.
const MinPasswordLength = 6

var (
	// ErrPasswordMismatch is returned by VerifyPassword for a wrong password.
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrWeakPassword is returned by CheckPasswordStrength.
	ErrWeakPassword = fmt.Errorf("password should be at least %d characters", MinPasswordLength)

	errHashFormat = errors.New("invalid hash format")
)

// CheckPasswordStrength enforces the minimum password length in characters.
func CheckPasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword generates a PHC-format Argon2id hash string including salt and parameters.
func HashPassword(password string) (string, error) {
	p, err := getPepper()
	if err != nil {
		return "", err
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password+p), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword compares a plaintext password against a PHC-style Argon2id hash.
func VerifyPassword(password, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return fmt.Errorf("%w: expected 6 parts", errHashFormat)
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", errHashFormat)
	}
	if parts[2] != "v=19" {
		return fmt.Errorf("%w: wrong version", errHashFormat)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %w", errHashFormat, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %w", errHashFormat, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: hash: %w", errHashFormat, err)
	}

	p, err := getPepper()
	if err != nil {
		return err
	}
	computed := argon2.IDKey(
		[]byte(password+p),
		salt, iters, mem, par,
		uint32(len(expected)), // #nosec G115 - bounded by the stored hash
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
