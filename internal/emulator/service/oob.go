package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store"
	"github.com/aussiebroadwan/idtoolkit/pkg/cryptox"
	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"
)

// DefaultOobCodeTTL matches how long production action links stay valid.
const DefaultOobCodeTTL = time.Hour

// OobService issues and redeems out-of-band codes. Nothing is emailed:
// codes are logged and kept for the emulator listing endpoint.
type OobService struct {
	Store   store.Store
	Tokens  *TokenService
	CodeTTL time.Duration
	Metrics *Metrics
}

// OobRequest asks for a code. VERIFY_EMAIL requires IDToken, PASSWORD_RESET
// requires Email.
type OobRequest struct {
	RequestType domain.OobRequestType
	IDToken     string
	Email       string
	Locale      string
}

// SendOobCode creates a code for the request and returns it.
func (s *OobService) SendOobCode(ctx context.Context, req OobRequest) (domain.OobCode, error) {
	var a domain.Account
	switch req.RequestType {
	case "":
		return domain.OobCode{}, ErrMissingRequestType

	case domain.OobVerifyEmail:
		acct, _, err := s.Tokens.VerifyIDToken(ctx, req.IDToken)
		if err != nil {
			return domain.OobCode{}, err
		}
		if acct.Email == "" {
			return domain.OobCode{}, ErrMissingEmail
		}
		a = acct

	case domain.OobPasswordReset:
		email := strings.TrimSpace(req.Email)
		if email == "" {
			return domain.OobCode{}, ErrMissingEmail
		}
		acct, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.OobCode{}, ErrEmailNotFound
			}
			return domain.OobCode{}, err
		}
		a = acct

	default:
		return domain.OobCode{}, ErrUnsupportedOobRequest
	}

	code, err := cryptox.NewOobCode()
	if err != nil {
		return domain.OobCode{}, err
	}
	now := time.Now()
	oob := domain.OobCode{
		Code:        code,
		Email:       a.Email,
		LocalID:     a.LocalID,
		RequestType: req.RequestType,
		Locale:      req.Locale,
		ExpiresAt:   now.Add(s.codeTTL()),
		CreatedAt:   now,
	}
	if err := s.Store.OobCodes().CreateOobCode(ctx, oob); err != nil {
		return domain.OobCode{}, err
	}

	s.Metrics.oobCodeSent(req.RequestType)
	slogx.FromContext(ctx).Info("oob code issued",
		slog.String("request_type", string(req.RequestType)),
		slog.String("email", a.Email),
		slog.String("locale", req.Locale),
	)
	return oob, nil
}

// ResetPassword validates a PASSWORD_RESET code and, when newPassword is
// set, applies it. A successful reset consumes the code, marks the email
// verified and signs out every existing session.
func (s *OobService) ResetPassword(ctx context.Context, code, newPassword string) (domain.OobCode, error) {
	oob, err := s.lookup(ctx, code, domain.OobPasswordReset)
	if err != nil {
		return domain.OobCode{}, err
	}
	if newPassword == "" {
		return oob, nil
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return domain.OobCode{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := tx.Accounts().GetAccountByID(ctx, oob.LocalID)
		if err != nil {
			return err
		}
		if a.Disabled {
			return ErrUserDisabled
		}
		a.PasswordHash = hash
		a.EmailVerified = true
		a.ValidSince = time.Now()

		if err := tx.Accounts().UpdateAccount(ctx, a); err != nil {
			return err
		}
		if err := tx.RefreshTokens().RevokeAllAccountRefreshTokens(ctx, a.LocalID); err != nil {
			return err
		}
		return tx.OobCodes().DeleteOobCode(ctx, oob.Code)
	})
	if err != nil {
		return domain.OobCode{}, err
	}
	return oob, nil
}

// ConfirmEmail redeems a VERIFY_EMAIL code.
func (s *OobService) ConfirmEmail(ctx context.Context, code string) (domain.Account, error) {
	oob, err := s.lookup(ctx, code, domain.OobVerifyEmail)
	if err != nil {
		return domain.Account{}, err
	}

	var a domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err = tx.Accounts().GetAccountByID(ctx, oob.LocalID)
		if err != nil {
			return err
		}
		// The email changed since the code was sent
		if !strings.EqualFold(a.Email, oob.Email) {
			return ErrInvalidOobCode
		}
		a.EmailVerified = true
		if err := tx.Accounts().UpdateAccount(ctx, a); err != nil {
			return err
		}
		return tx.OobCodes().DeleteOobCode(ctx, oob.Code)
	})
	if err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

// ListOobCodes returns every outstanding code.
func (s *OobService) ListOobCodes(ctx context.Context) ([]domain.OobCode, error) {
	return s.Store.OobCodes().ListOobCodes(ctx)
}

func (s *OobService) lookup(ctx context.Context, code string, want domain.OobRequestType) (domain.OobCode, error) {
	if code == "" {
		return domain.OobCode{}, ErrMissingOobCode
	}
	oob, err := s.Store.OobCodes().GetOobCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.OobCode{}, ErrInvalidOobCode
		}
		return domain.OobCode{}, err
	}
	if oob.RequestType != want {
		return domain.OobCode{}, ErrInvalidOobCode
	}
	return oob, nil
}

func (s *OobService) codeTTL() time.Duration {
	if s.CodeTTL <= 0 {
		return DefaultOobCodeTTL
	}
	return s.CodeTTL
}
