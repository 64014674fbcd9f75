package http

import (
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/aussiebroadwan/idtoolkit/pkg/identity"
)

// Wire types the SDK does not export. Everything else reuses the request
// and response types of pkg/identity so both sides agree on the format.

// IDTokenRequest is the body of accounts:delete and accounts:lookup.
type IDTokenRequest struct {
	IDToken string `json:"idToken"`
}

// CreateAuthURIRequest is the body of accounts:createAuthUri.
type CreateAuthURIRequest struct {
	Identifier  string `json:"identifier"`
	ContinueURI string `json:"continueUri"`
}

// UpdateRequest is the body of accounts:update. OobCode alone confirms an
// email verification code.
type UpdateRequest struct {
	identity.UpdateAccountRequest
	OobCode string `json:"oobCode,omitempty"`
}

// LookupResponse wraps the accounts:lookup users array.
type LookupResponse struct {
	Users []identity.AccountInfo `json:"users"`
}

// SendOobCodeResponse is the accounts:sendOobCode response.
type SendOobCodeResponse struct {
	Email string `json:"email"`
}

// SecureTokenRequest is the JSON form of a token refresh.
type SecureTokenRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

// SecureTokenResponse is the snake_case refresh response.
type SecureTokenResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,string"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id"`
	ProjectID    string `json:"project_id"`
}

// OobCodeListing is one code returned by the emulator listing endpoint.
type OobCodeListing struct {
	Email       string                `json:"email"`
	RequestType domain.OobRequestType `json:"requestType"`
	OobCode     string                `json:"oobCode"`
	OobLink     string                `json:"oobLink"`
	Locale      string                `json:"locale,omitempty"`
}

// OobCodesResponse lists the codes the emulator would have emailed.
type OobCodesResponse struct {
	OobCodes []OobCodeListing `json:"oobCodes"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of readiness dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// EmptyResponse is returned by endpoints with nothing to report.
type EmptyResponse struct{}

// RotateKeysResponse names the key that signs new ID tokens.
type RotateKeysResponse struct {
	KID string `json:"kid"`
}

func tokenResponse(a domain.Account, pair *domain.TokenPair) identity.TokenResponse {
	return identity.TokenResponse{
		IDToken:      pair.IDToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
		LocalID:      a.LocalID,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
	}
}

func accountInfo(a domain.Account, links []domain.ProviderLink) identity.AccountInfo {
	return identity.AccountInfo{
		LocalID:          a.LocalID,
		Email:            a.Email,
		EmailVerified:    a.EmailVerified,
		DisplayName:      a.DisplayName,
		PhotoURL:         a.PhotoURL,
		Disabled:         a.Disabled,
		ProviderUserInfo: providerUserInfo(a, links),
		CreatedAt:        a.CreatedAt.UnixMilli(),
		LastLoginAt:      a.LastLoginAt.UnixMilli(),
	}
}

// providerUserInfo lists the password credential first, then federated
// identities in link order.
func providerUserInfo(a domain.Account, links []domain.ProviderLink) []identity.ProviderUserInfo {
	var out []identity.ProviderUserInfo
	if a.PasswordHash != "" {
		out = append(out, identity.ProviderUserInfo{
			ProviderID:  domain.ProviderPassword,
			FederatedID: a.Email,
			Email:       a.Email,
			RawID:       a.Email,
		})
	}
	for _, l := range links {
		out = append(out, identity.ProviderUserInfo{
			ProviderID:  l.ProviderID,
			FederatedID: l.FederatedID,
			Email:       l.Email,
			DisplayName: l.DisplayName,
			PhotoURL:    l.PhotoURL,
			RawID:       l.FederatedID,
		})
	}
	return out
}
