package identity

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is the token-issuance response shared by every sign-up,
// sign-in and refresh call. The REST transport normalises the secure token
// endpoint's snake_case response into this shape.
type TokenResponse struct {
	// IDToken is the short-lived JWT proving the current authentication state
	IDToken string `json:"idToken"`

	// RefreshToken is the long-lived token used to obtain new ID tokens
	RefreshToken string `json:"refreshToken"`

	// ExpiresIn is the ID token lifetime in seconds (sent as a decimal string)
	ExpiresIn int64 `json:"expiresIn,string"`

	// LocalID is the backend user id. Not returned by custom token sign-in.
	LocalID string `json:"localId,omitempty"`

	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`

	// Registered is set by password sign-in
	Registered bool `json:"registered,omitempty"`

	// ProviderID and FederatedID are set by IdP sign-in
	ProviderID  string `json:"providerId,omitempty"`
	FederatedID string `json:"federatedId,omitempty"`

	// IsNewUser is set by IdP and custom token sign-in
	IsNewUser bool `json:"isNewUser,omitempty"`
}

// secureTokenResponse is the raw refresh response from the secure token API.
type secureTokenResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,string"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id"`
	ProjectID    string `json:"project_id"`
}

// ============================================================================
// Provider Discovery Types
// ============================================================================

// ProvidersResponse is the createAuthUri response.
type ProvidersResponse struct {
	// Registered reports whether the identifier has any account
	Registered bool `json:"registered"`

	// AllProviders lists every provider id linked to the account
	AllProviders []string `json:"allProviders,omitempty"`

	// SigninMethods lists sign-in methods, "password" for email/password
	SigninMethods []string `json:"signinMethods,omitempty"`

	SessionID string `json:"sessionId,omitempty"`
}

// ============================================================================
// Account Types
// ============================================================================

// ProviderUserInfo describes one sign-in method linked to an account.
type ProviderUserInfo struct {
	ProviderID  string `json:"providerId"`
	FederatedID string `json:"federatedId,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	RawID       string `json:"rawId,omitempty"`
}

// AccountInfo is one user record returned by accounts:lookup.
type AccountInfo struct {
	LocalID          string             `json:"localId"`
	Email            string             `json:"email,omitempty"`
	EmailVerified    bool               `json:"emailVerified,omitempty"`
	DisplayName      string             `json:"displayName,omitempty"`
	PhotoURL         string             `json:"photoUrl,omitempty"`
	PasswordHash     string             `json:"passwordHash,omitempty"`
	Disabled         bool               `json:"disabled,omitempty"`
	ProviderUserInfo []ProviderUserInfo `json:"providerUserInfo,omitempty"`
	CreatedAt        int64              `json:"createdAt,string,omitempty"`
	LastLoginAt      int64              `json:"lastLoginAt,string,omitempty"`
}

// lookupResponse wraps the accounts:lookup users array.
type lookupResponse struct {
	Users []AccountInfo `json:"users"`
}

// UpdateAccountResponse is the accounts:update response. Tokens are only
// present when the request asked for them (email/password changes and links).
type UpdateAccountResponse struct {
	LocalID          string             `json:"localId"`
	Email            string             `json:"email,omitempty"`
	EmailVerified    bool               `json:"emailVerified,omitempty"`
	DisplayName      string             `json:"displayName,omitempty"`
	PhotoURL         string             `json:"photoUrl,omitempty"`
	ProviderUserInfo []ProviderUserInfo `json:"providerUserInfo,omitempty"`

	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,string,omitempty"`
}

// tokens returns the embedded token response when the backend issued new tokens.
func (r *UpdateAccountResponse) tokens() (*TokenResponse, bool) {
	if r.IDToken == "" {
		return nil, false
	}
	return &TokenResponse{
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
		LocalID:      r.LocalID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
	}, true
}

// ============================================================================
// Out-of-band Code Types
// ============================================================================

// OobRequestType is the kind of transactional email to send.
type OobRequestType string

const (
	OobVerifyEmail   OobRequestType = "VERIFY_EMAIL"
	OobPasswordReset OobRequestType = "PASSWORD_RESET"
)

// ResetPasswordResponse is the accounts:resetPassword response. Validating a
// code without a new password returns the account email and request type.
type ResetPasswordResponse struct {
	Email       string         `json:"email"`
	RequestType OobRequestType `json:"requestType,omitempty"`
}

// oobCodeResponse is the accounts:sendOobCode response.
type oobCodeResponse struct {
	Email string `json:"email"`
}

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the backend error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the HTTP status and the backend error message, which is
// an upper-snake-case code optionally followed by " : detail".
type ErrorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is one entry of the backend error list.
type ErrorDetail struct {
	Message string `json:"message"`
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
}
