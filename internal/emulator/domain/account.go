package domain

import "time"

// Provider ids stored on ProviderLink rows and reported by createAuthUri.
const (
	ProviderPassword = "password"
)

// Account is one user record. PasswordHash is empty for anonymous and
// federated-only accounts.
type Account struct {
	LocalID       string
	Email         string
	EmailVerified bool
	DisplayName   string
	PhotoURL      string
	PasswordHash  string // argon2 encoded
	Disabled      bool

	// ValidSince invalidates ID tokens issued before it (password changes)
	ValidSince time.Time

	CreatedAt   time.Time
	LastLoginAt time.Time
}

// ProviderLink attaches a federated identity to an account.
type ProviderLink struct {
	LocalID     string
	ProviderID  string // "google.com", "github.com", ...
	FederatedID string // subject at the provider
	Email       string
	DisplayName string
	PhotoURL    string
	CreatedAt   time.Time
}
