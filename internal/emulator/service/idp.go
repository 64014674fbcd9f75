package service

import (
	"net/url"
	"strings"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/golang-jwt/jwt/v5"
)

// idpCredential is the identity asserted by an IdP post body.
type idpCredential struct {
	ProviderID  string
	FederatedID string
	Email       string
	DisplayName string
	PhotoURL    string
}

// parseIdpPostBody reads a form-encoded IdP credential. The emulator trusts
// the credential without contacting the provider: an id_token is decoded
// without signature checks and its "sub" becomes the federated id, an
// access_token is used as the federated id directly.
func parseIdpPostBody(postBody string) (idpCredential, error) {
	values, err := url.ParseQuery(postBody)
	if err != nil {
		return idpCredential{}, ErrInvalidIdpResponse
	}

	cred := idpCredential{ProviderID: strings.TrimSpace(values.Get("providerId"))}
	switch cred.ProviderID {
	case "", domain.ProviderPassword, identityEmail:
		return idpCredential{}, ErrInvalidIdpResponse
	}

	if idToken := values.Get("id_token"); idToken != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
			return idpCredential{}, ErrInvalidIdpResponse
		}
		cred.FederatedID, _ = claims["sub"].(string)
		cred.Email, _ = claims["email"].(string)
		cred.DisplayName, _ = claims["name"].(string)
		cred.PhotoURL, _ = claims["picture"].(string)
	} else {
		cred.FederatedID = values.Get("access_token")
	}

	if cred.FederatedID == "" {
		return idpCredential{}, ErrInvalidIdpResponse
	}
	return cred, nil
}

func (c idpCredential) link(localID string) domain.ProviderLink {
	return domain.ProviderLink{
		LocalID:     localID,
		ProviderID:  c.ProviderID,
		FederatedID: c.FederatedID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		PhotoURL:    c.PhotoURL,
	}
}

// fillProfile copies IdP profile fields into empty account fields and
// reports whether anything changed.
func (c idpCredential) fillProfile(a *domain.Account) bool {
	changed := false
	if a.Email == "" && c.Email != "" {
		a.Email, a.EmailVerified = c.Email, true
		changed = true
	}
	if a.DisplayName == "" && c.DisplayName != "" {
		a.DisplayName = c.DisplayName
		changed = true
	}
	if a.PhotoURL == "" && c.PhotoURL != "" {
		a.PhotoURL = c.PhotoURL
		changed = true
	}
	return changed
}
