package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store"
	"github.com/aussiebroadwan/idtoolkit/pkg/cryptox"
	"github.com/aussiebroadwan/idtoolkit/pkg/idx"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

// identityEmail is the identities key for the account email.
const identityEmail = "email"

type TokenService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	ProjectID  string
	IDTokenTTL time.Duration
	RefreshTTL time.Duration
	Metrics    *Metrics
}

// Issue mints an ID token for the account and stores a new refresh token
// through st, which may be a transaction.
func (s *TokenService) Issue(
	ctx context.Context,
	st store.Store,
	a domain.Account,
	signInProvider string,
) (*domain.TokenPair, error) {
	links, err := st.Providers().ListProviderLinks(ctx, a.LocalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	idToken, err := s.signID(a, links, signInProvider, now)
	if err != nil {
		return nil, err
	}

	refresh, err := cryptox.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := st.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:             idx.New().String(),
		LocalID:        a.LocalID,
		TokenHash:      refresh.Fingerprint,
		SignInProvider: signInProvider,
		ExpiresAt:      now.Add(s.RefreshTTL),
	}); err != nil {
		return nil, err
	}

	s.Metrics.tokenIssued(signInProvider)
	return &domain.TokenPair{
		IDToken:      idToken,
		RefreshToken: refresh.Opaque,
		ExpiresIn:    s.IDTokenTTL,
		LocalID:      a.LocalID,
	}, nil
}

// VerifyIDToken checks the token signature and expiry, then loads the
// account it belongs to. Tokens issued before the account's ValidSince are
// rejected.
func (s *TokenService) VerifyIDToken(ctx context.Context, idToken string) (domain.Account, *jwtx.Claims, error) {
	if idToken == "" {
		return domain.Account{}, nil, ErrInvalidIDToken
	}

	claims, err := s.KeyManager.Verifier.Verify(idToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return domain.Account{}, nil, ErrTokenExpired
		}
		return domain.Account{}, nil, ErrInvalidIDToken
	}

	a, err := s.Store.Accounts().GetAccountByID(ctx, claims.LocalID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, nil, ErrUserNotFound
		}
		return domain.Account{}, nil, err
	}
	if a.Disabled {
		return domain.Account{}, nil, ErrUserDisabled
	}
	if claims.IssuedAt == nil || claims.IssuedAt.Unix() < a.ValidSince.Unix() {
		return domain.Account{}, nil, ErrTokenExpired
	}
	return a, claims, nil
}

// Refresh exchanges a refresh token for a new token pair. Refresh tokens
// rotate: the presented token is revoked in the same transaction that
// stores its replacement.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	if refreshOpaque == "" {
		return nil, ErrMissingRefreshToken
	}
	now := time.Now()

	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if rt.Revoked || now.After(rt.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := tx.Accounts().GetAccountByID(ctx, rt.LocalID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if a.Disabled {
			return ErrUserDisabled
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		pair, err = s.Issue(ctx, tx, a, rt.SignInProvider)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *TokenService) signID(a domain.Account, links []domain.ProviderLink, signInProvider string, now time.Time) (string, error) {
	claims := jwtx.NewIDTokenClaims(jwtx.IDTokenParams{
		ProjectID:      s.ProjectID,
		LocalID:        a.LocalID,
		Email:          a.Email,
		EmailVerified:  a.EmailVerified,
		DisplayName:    a.DisplayName,
		PhotoURL:       a.PhotoURL,
		SignInProvider: signInProvider,
		Identities:     identities(a, links),
		AuthTime:       a.LastLoginAt,
	}, s.IDTokenTTL, now)

	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return "", errors.New("no signing key available")
	}
	return signer.Sign(claims)
}

// identities maps provider ids to the identifiers linked to the account.
func identities(a domain.Account, links []domain.ProviderLink) map[string][]string {
	out := map[string][]string{}
	if a.Email != "" {
		out[identityEmail] = []string{a.Email}
	}
	for _, l := range links {
		out[l.ProviderID] = append(out[l.ProviderID], l.FederatedID)
	}
	return out
}
