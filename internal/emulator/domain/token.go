package domain

import "time"

// TokenPair is what every token-issuing endpoint returns: a short-lived ID
// token (JWT) and an opaque refresh token.
type TokenPair struct {
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
	LocalID      string
}

// RefreshToken models the stored refresh token record in the DB.
type RefreshToken struct {
	ID        string
	LocalID   string
	TokenHash string // deterministic fingerprint (base64url SHA-256)

	// SignInProvider is the provider of the sign-in that created the chain,
	// carried into every ID token minted from it
	SignInProvider string

	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
