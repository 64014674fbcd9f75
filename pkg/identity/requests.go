package identity

import (
	"net/url"
	"strings"
)

// Request payloads sent to the Identity Toolkit endpoints. Each constructor
// fills in the fields the backend requires for that flow, so callers and the
// Session never hand-assemble payloads.

// SignUpRequest creates a new account. An empty email and password creates an
// anonymous account.
type SignUpRequest struct {
	Email             string `json:"email,omitempty"`
	Password          string `json:"password,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// NewAnonymousSignUp builds an anonymous account creation request.
func NewAnonymousSignUp() SignUpRequest {
	return SignUpRequest{ReturnSecureToken: true}
}

// NewPasswordSignUp builds an email/password account creation request.
func NewPasswordSignUp(email, password string) SignUpRequest {
	return SignUpRequest{
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	}
}

// PasswordSignInRequest signs in with email and password.
type PasswordSignInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// NewPasswordSignIn builds an email/password sign-in request.
func NewPasswordSignIn(email, password string) PasswordSignInRequest {
	return PasswordSignInRequest{
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	}
}

// IdpSignInRequest signs in (or links, when IDToken is set) with an identity
// provider credential. PostBody and RequestURI are opaque to this package.
type IdpSignInRequest struct {
	PostBody            string `json:"postBody"`
	RequestURI          string `json:"requestUri"`
	IDToken             string `json:"idToken,omitempty"`
	ReturnSecureToken   bool   `json:"returnSecureToken"`
	ReturnIdpCredential bool   `json:"returnIdpCredential"`
}

// NewIdpSignIn builds an IdP sign-in request.
func NewIdpSignIn(postBody, requestURI string) IdpSignInRequest {
	return IdpSignInRequest{
		PostBody:            postBody,
		RequestURI:          requestURI,
		ReturnSecureToken:   true,
		ReturnIdpCredential: true,
	}
}

// NewIdpLink builds a request that links an IdP credential to the account
// identified by idToken.
func NewIdpLink(idToken, postBody, requestURI string) IdpSignInRequest {
	req := NewIdpSignIn(postBody, requestURI)
	req.IDToken = idToken
	return req
}

// IdpPostBody encodes a provider credential into the form-encoded post body
// accepted by signInWithIdp. Empty values are omitted.
func IdpPostBody(providerID, idToken, accessToken string) string {
	v := url.Values{"providerId": {providerID}}
	if idToken != "" {
		v.Set("id_token", idToken)
	}
	if accessToken != "" {
		v.Set("access_token", accessToken)
	}
	return v.Encode()
}

// CustomTokenSignInRequest signs in with a token minted by a trusted server.
type CustomTokenSignInRequest struct {
	Token             string `json:"token"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// NewCustomTokenSignIn builds a custom token sign-in request.
func NewCustomTokenSignIn(token string) CustomTokenSignInRequest {
	return CustomTokenSignInRequest{Token: token, ReturnSecureToken: true}
}

// OobCodeRequest asks the backend to send a transactional email. Exactly one
// of IDToken (verify email) or Email (password reset) is set.
type OobCodeRequest struct {
	RequestType OobRequestType `json:"requestType"`
	IDToken     string         `json:"idToken,omitempty"`
	Email       string         `json:"email,omitempty"`

	// Locale travels as the X-Firebase-Locale header, not in the body
	Locale string `json:"-"`
}

// NewVerifyEmailRequest builds an email verification request for the account
// identified by idToken.
func NewVerifyEmailRequest(idToken, locale string) OobCodeRequest {
	return OobCodeRequest{RequestType: OobVerifyEmail, IDToken: idToken, Locale: locale}
}

// NewPasswordResetRequest builds a password reset email request.
func NewPasswordResetRequest(email, locale string) OobCodeRequest {
	return OobCodeRequest{
		RequestType: OobPasswordReset,
		Email:       strings.TrimSpace(email),
		Locale:      locale,
	}
}

// ResetPasswordRequest validates an OOB code or, with NewPassword set, applies
// the password reset.
type ResetPasswordRequest struct {
	OobCode     string `json:"oobCode"`
	NewPassword string `json:"newPassword,omitempty"`
}

// UpdateAccountRequest mutates the account identified by IDToken.
type UpdateAccountRequest struct {
	IDToken         string   `json:"idToken"`
	Email           string   `json:"email,omitempty"`
	Password        string   `json:"password,omitempty"`
	DisplayName     string   `json:"displayName,omitempty"`
	PhotoURL        string   `json:"photoUrl,omitempty"`
	DeleteAttribute []string `json:"deleteAttribute,omitempty"`
	DeleteProvider  []string `json:"deleteProvider,omitempty"`

	ReturnSecureToken bool `json:"returnSecureToken"`
}

// Attributes accepted by UpdateAccountRequest.DeleteAttribute.
const (
	AttributeDisplayName = "DISPLAY_NAME"
	AttributePhotoURL    = "PHOTO_URL"
)

// NewEmailLink builds a request that attaches an email/password credential to
// the account identified by idToken.
func NewEmailLink(idToken, email, password string) UpdateAccountRequest {
	return UpdateAccountRequest{
		IDToken:           idToken,
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	}
}

// NewUnlink builds a request that removes the given providers from the account.
func NewUnlink(idToken string, providerIDs ...string) UpdateAccountRequest {
	return UpdateAccountRequest{IDToken: idToken, DeleteProvider: providerIDs}
}

// idTokenRequest is the body of accounts:delete and accounts:lookup.
type idTokenRequest struct {
	IDToken string `json:"idToken"`
}

// createAuthURIRequest is the body of accounts:createAuthUri.
type createAuthURIRequest struct {
	Identifier  string `json:"identifier"`
	ContinueURI string `json:"continueUri"`
}
