package service

import (
	"context"
	"errors"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store"
	"github.com/aussiebroadwan/idtoolkit/pkg/cryptox"
	"github.com/aussiebroadwan/idtoolkit/pkg/idx"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

// Attributes accepted by UpdateParams.DeleteAttribute.
const (
	AttributeDisplayName = "DISPLAY_NAME"
	AttributePhotoURL    = "PHOTO_URL"
)

// AccountService implements account creation, sign-in and management.
type AccountService struct {
	Store  store.Store
	Tokens *TokenService

	// CustomTokenSecret verifies HS256 custom tokens. Custom token sign-in
	// is disabled when empty.
	CustomTokenSecret []byte

	DisableAnonymous bool
	DisablePassword  bool
}

// SignInResult is returned by every sign-up and sign-in flow.
type SignInResult struct {
	Account   domain.Account
	Tokens    *domain.TokenPair
	IsNewUser bool

	// Set by IdP sign-in
	ProviderID  string
	FederatedID string
}

// AccountResult is an account with its federated identities and, when
// requested, fresh tokens.
type AccountResult struct {
	Account domain.Account
	Links   []domain.ProviderLink
	Tokens  *domain.TokenPair
}

// SignUp creates an account. An empty email and password creates an
// anonymous account.
func (s *AccountService) SignUp(ctx context.Context, email, password, displayName string) (*SignInResult, error) {
	email = strings.TrimSpace(email)
	now := time.Now()

	a := domain.Account{
		LocalID:     idx.New().String(),
		DisplayName: displayName,
		ValidSince:  now,
		CreatedAt:   now,
		LastLoginAt: now,
	}
	provider := jwtx.ProviderPassword

	if email == "" && password == "" {
		if s.DisableAnonymous {
			return nil, ErrOperationNotAllowed
		}
		provider = jwtx.ProviderAnonymous
	} else {
		if s.DisablePassword {
			return nil, ErrOperationNotAllowed
		}
		if email == "" {
			return nil, ErrMissingEmail
		}
		if password == "" {
			return nil, ErrMissingPassword
		}
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		hash, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		a.Email = email
		a.PasswordHash = hash
	}

	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, a); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailExists
			}
			return err
		}
		var err error
		pair, err = s.Tokens.Issue(ctx, tx, a, provider)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &SignInResult{Account: a, Tokens: pair, IsNewUser: true}, nil
}

// SignInWithPassword checks an email and password.
func (s *AccountService) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	if s.DisablePassword {
		return nil, ErrPasswordLoginDisabled
	}
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	a, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, err
	}
	if a.PasswordHash == "" {
		return nil, ErrInvalidPassword
	}
	if err := cryptox.VerifyPassword(password, a.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return nil, ErrInvalidPassword
		}
		return nil, err
	}
	if a.Disabled {
		return nil, ErrUserDisabled
	}

	return s.signIn(ctx, a, jwtx.ProviderPassword)
}

// IdpRequest is an identity provider sign-in, or a link when IDToken is set.
type IdpRequest struct {
	PostBody   string
	RequestURI string
	IDToken    string
}

// SignInWithIdp signs in with, or links, an identity provider credential.
// Unknown federated identities create a new account.
func (s *AccountService) SignInWithIdp(ctx context.Context, req IdpRequest) (*SignInResult, error) {
	if strings.TrimSpace(req.RequestURI) == "" {
		return nil, ErrMissingRequestURI
	}
	cred, err := parseIdpPostBody(req.PostBody)
	if err != nil {
		return nil, err
	}
	if req.IDToken != "" {
		return s.linkIdp(ctx, req.IDToken, cred)
	}

	now := time.Now()
	res := &SignInResult{ProviderID: cred.ProviderID, FederatedID: cred.FederatedID}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		link, err := tx.Providers().GetProviderLink(ctx, cred.ProviderID, cred.FederatedID)
		switch {
		case err == nil:
			a, err := tx.Accounts().GetAccountByID(ctx, link.LocalID)
			if err != nil {
				return err
			}
			if a.Disabled {
				return ErrUserDisabled
			}
			if err := tx.Accounts().TouchLastLogin(ctx, a.LocalID); err != nil {
				return err
			}
			a.LastLoginAt = now
			res.Account = a

		case errors.Is(err, store.ErrNotFound):
			a := domain.Account{
				LocalID:       idx.New().String(),
				Email:         cred.Email,
				EmailVerified: cred.Email != "",
				DisplayName:   cred.DisplayName,
				PhotoURL:      cred.PhotoURL,
				ValidSince:    now,
				CreatedAt:     now,
				LastLoginAt:   now,
			}
			if err := tx.Accounts().CreateAccount(ctx, a); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return ErrEmailExists
				}
				return err
			}
			if err := tx.Providers().LinkProvider(ctx, cred.link(a.LocalID)); err != nil {
				return err
			}
			res.Account = a
			res.IsNewUser = true

		default:
			return err
		}

		res.Tokens, err = s.Tokens.Issue(ctx, tx, res.Account, cred.ProviderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AccountService) linkIdp(ctx context.Context, idToken string, cred idpCredential) (*SignInResult, error) {
	a, _, err := s.Tokens.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	res := &SignInResult{ProviderID: cred.ProviderID, FederatedID: cred.FederatedID}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Providers().GetProviderLink(ctx, cred.ProviderID, cred.FederatedID)
		switch {
		case err == nil && existing.LocalID != a.LocalID:
			return ErrFederatedIDLinked
		case err == nil:
			// linking the same identity twice is a no-op
		case errors.Is(err, store.ErrNotFound):
			links, err := tx.Providers().ListProviderLinks(ctx, a.LocalID)
			if err != nil {
				return err
			}
			if slices.ContainsFunc(links, func(l domain.ProviderLink) bool { return l.ProviderID == cred.ProviderID }) {
				return ErrProviderAlreadyLinked
			}
			if err := tx.Providers().LinkProvider(ctx, cred.link(a.LocalID)); err != nil {
				return err
			}
		default:
			return err
		}

		if cred.fillProfile(&a) {
			if err := tx.Accounts().UpdateAccount(ctx, a); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return ErrEmailExists
				}
				return err
			}
		}

		res.Account = a
		res.Tokens, err = s.Tokens.Issue(ctx, tx, a, cred.ProviderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SignInWithCustomToken exchanges a custom token for tokens, creating the
// account named by its uid on first use.
func (s *AccountService) SignInWithCustomToken(ctx context.Context, token string) (*SignInResult, error) {
	if len(s.CustomTokenSecret) == 0 {
		return nil, ErrOperationNotAllowed
	}
	claims, err := jwtx.VerifyCustomToken(s.CustomTokenSecret, token)
	if err != nil {
		return nil, ErrInvalidCustomToken
	}

	now := time.Now()
	res := &SignInResult{}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := tx.Accounts().GetAccountByID(ctx, claims.UID)
		switch {
		case err == nil:
			if a.Disabled {
				return ErrUserDisabled
			}
			if err := tx.Accounts().TouchLastLogin(ctx, a.LocalID); err != nil {
				return err
			}
			a.LastLoginAt = now
		case errors.Is(err, store.ErrNotFound):
			a = domain.Account{LocalID: claims.UID, ValidSince: now, CreatedAt: now, LastLoginAt: now}
			if err := tx.Accounts().CreateAccount(ctx, a); err != nil {
				return err
			}
			res.IsNewUser = true
		default:
			return err
		}

		res.Account = a
		res.Tokens, err = s.Tokens.Issue(ctx, tx, a, jwtx.ProviderCustom)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateParams mutates the account identified by IDToken. Empty fields are
// left unchanged.
type UpdateParams struct {
	IDToken         string
	Email           string
	Password        string
	DisplayName     string
	PhotoURL        string
	DeleteAttribute []string
	DeleteProvider  []string

	ReturnSecureToken bool
}

// Update applies profile, email, password and provider changes. Setting a
// password revokes every refresh token and every ID token issued before
// the change.
func (s *AccountService) Update(ctx context.Context, p UpdateParams) (*AccountResult, error) {
	a, claims, err := s.Tokens.VerifyIDToken(ctx, p.IDToken)
	if err != nil {
		return nil, err
	}
	signInProvider := claims.Provider.SignInProvider

	if email := strings.TrimSpace(p.Email); email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if !strings.EqualFold(email, a.Email) {
			a.EmailVerified = false
		}
		a.Email = email
	}

	passwordChanged := p.Password != ""
	if passwordChanged {
		if s.DisablePassword {
			return nil, ErrOperationNotAllowed
		}
		hash, err := hashPassword(p.Password)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = hash
		a.ValidSince = time.Now()
		if signInProvider == jwtx.ProviderAnonymous {
			signInProvider = jwtx.ProviderPassword
		}
	}

	if p.DisplayName != "" {
		a.DisplayName = p.DisplayName
	}
	if p.PhotoURL != "" {
		a.PhotoURL = p.PhotoURL
	}
	for _, attr := range p.DeleteAttribute {
		switch attr {
		case AttributeDisplayName:
			a.DisplayName = ""
		case AttributePhotoURL:
			a.PhotoURL = ""
		}
	}

	res := &AccountResult{}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, providerID := range p.DeleteProvider {
			if providerID == domain.ProviderPassword {
				if a.PasswordHash == "" {
					return ErrNoSuchProvider
				}
				a.PasswordHash = ""
				continue
			}
			if err := tx.Providers().UnlinkProvider(ctx, a.LocalID, providerID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrNoSuchProvider
				}
				return err
			}
		}

		if err := tx.Accounts().UpdateAccount(ctx, a); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailExists
			}
			return err
		}
		if passwordChanged {
			if err := tx.RefreshTokens().RevokeAllAccountRefreshTokens(ctx, a.LocalID); err != nil {
				return err
			}
		}

		links, err := tx.Providers().ListProviderLinks(ctx, a.LocalID)
		if err != nil {
			return err
		}
		res.Account, res.Links = a, links

		if p.ReturnSecureToken {
			res.Tokens, err = s.Tokens.Issue(ctx, tx, a, signInProvider)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Lookup returns the account identified by an ID token.
func (s *AccountService) Lookup(ctx context.Context, idToken string) (*AccountResult, error) {
	a, _, err := s.Tokens.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	links, err := s.Store.Providers().ListProviderLinks(ctx, a.LocalID)
	if err != nil {
		return nil, err
	}
	return &AccountResult{Account: a, Links: links}, nil
}

// Delete removes the account identified by an ID token.
func (s *AccountService) Delete(ctx context.Context, idToken string) error {
	a, _, err := s.Tokens.VerifyIDToken(ctx, idToken)
	if err != nil {
		return err
	}
	return s.Store.Accounts().DeleteAccount(ctx, a.LocalID)
}

// ProviderInfo reports the sign-in methods registered for an email.
type ProviderInfo struct {
	Registered bool
	Providers  []string
}

// CreateAuthURI looks up the providers registered for an email.
func (s *AccountService) CreateAuthURI(ctx context.Context, identifier string) (*ProviderInfo, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrMissingIdentifier
	}
	if validateEmail(identifier) != nil {
		return nil, ErrInvalidIdentifier
	}

	a, err := s.Store.Accounts().GetAccountByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &ProviderInfo{}, nil
		}
		return nil, err
	}
	links, err := s.Store.Providers().ListProviderLinks(ctx, a.LocalID)
	if err != nil {
		return nil, err
	}

	info := &ProviderInfo{Registered: true, Providers: []string{}}
	if a.PasswordHash != "" {
		info.Providers = append(info.Providers, domain.ProviderPassword)
	}
	for _, l := range links {
		if !slices.Contains(info.Providers, l.ProviderID) {
			info.Providers = append(info.Providers, l.ProviderID)
		}
	}
	return info, nil
}

// Wipe deletes every account.
func (s *AccountService) Wipe(ctx context.Context) error {
	return s.Store.Accounts().DeleteAllAccounts(ctx)
}

func (s *AccountService) signIn(ctx context.Context, a domain.Account, provider string) (*SignInResult, error) {
	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().TouchLastLogin(ctx, a.LocalID); err != nil {
			return err
		}
		a.LastLoginAt = time.Now()

		var err error
		pair, err = s.Tokens.Issue(ctx, tx, a, provider)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &SignInResult{Account: a, Tokens: pair}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrMissingPassword
	}
	if err := cryptox.CheckPasswordStrength(password); err != nil {
		return "", ErrWeakPassword
	}
	return cryptox.HashPassword(password)
}
