package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes used by the emulator.
const (
	// DefaultIDTokenTTL matches the one hour lifetime of production ID tokens.
	DefaultIDTokenTTL = time.Hour

	// DefaultRefreshTokenTTL bounds how long an unused refresh token stays valid.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Sign-in provider identifiers carried in ProviderClaims.SignInProvider.
const (
	ProviderAnonymous = "anonymous"
	ProviderPassword  = "password"
	ProviderCustom    = "custom"
)

// Claims are the ID token claims. The layout follows the Identity Toolkit
// wire format so tokens minted by the emulator decode the same way as
// production tokens.
type Claims struct {
	jwt.RegisteredClaims

	// UserID duplicates the subject, production tokens carry both
	UserID string `json:"user_id,omitempty"`

	// AuthTime is when the user last actively signed in (unix seconds)
	AuthTime int64 `json:"auth_time,omitempty"`

	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`

	// Provider describes how the session was established
	Provider ProviderClaims `json:"firebase"`
}

// ProviderClaims is the nested sign-in metadata claim.
type ProviderClaims struct {
	// Identities maps provider ids ("email", "google.com") to the identifiers
	// linked to the account
	Identities map[string][]string `json:"identities"`

	// SignInProvider is the provider used for the current sign-in
	SignInProvider string `json:"sign_in_provider"`
}

// IDTokenParams carries the account state encoded into an ID token.
type IDTokenParams struct {
	ProjectID      string
	LocalID        string
	Email          string
	EmailVerified  bool
	DisplayName    string
	PhotoURL       string
	SignInProvider string
	Identities     map[string][]string
	AuthTime       time.Time
}

// NewIDTokenClaims builds minimally-correct ID token claims. The issuer and
// audience are derived from the project id.
func NewIDTokenClaims(p IDTokenParams, ttl time.Duration, now time.Time) Claims {
	authTime := p.AuthTime
	if authTime.IsZero() {
		authTime = now
	}
	identities := p.Identities
	if identities == nil {
		identities = map[string][]string{}
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    IssuerFor(p.ProjectID),
			Subject:   p.LocalID,
			Audience:  jwt.ClaimStrings{p.ProjectID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UserID:        p.LocalID,
		AuthTime:      authTime.Unix(),
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		Name:          p.DisplayName,
		Picture:       p.PhotoURL,
		Provider: ProviderClaims{
			Identities:     identities,
			SignInProvider: p.SignInProvider,
		},
	}
}

// IssuerFor returns the token issuer for a project.
func IssuerFor(projectID string) string {
	return "https://securetoken.google.com/" + projectID
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ParseUnverified decodes the claims of a token without checking its
// signature. Clients use it to read the account id and expiry from tokens
// they received over TLS from the backend; it must never be used to make
// trust decisions.
func ParseUnverified(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &claims, nil
}

// LocalID returns the account id carried by the token.
func (c *Claims) LocalID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired and isn't used before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
