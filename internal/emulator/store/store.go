package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrNestedTx      = errors.New("store: nested transaction")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and so a
// Tx-scoped store cannot start a nested transaction.
type Store interface {
	Accounts() Accounts
	Providers() Providers
	RefreshTokens() RefreshTokens
	OobCodes() OobCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account by local id.
	GetAccountByID(ctx context.Context, localID string) (domain.Account, error)

	// GetAccountByEmail matches emails case-insensitively.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// CreateAccount inserts a new account. A taken email yields ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateAccount overwrites every mutable column of the account.
	UpdateAccount(ctx context.Context, a domain.Account) error

	// TouchLastLogin records a successful sign-in.
	TouchLastLogin(ctx context.Context, localID string) error

	// DeleteAccount cascades to provider links, refresh tokens and OOB codes.
	DeleteAccount(ctx context.Context, localID string) error

	// DeleteAllAccounts wipes every account and, by cascade, everything else.
	DeleteAllAccounts(ctx context.Context) error
}

type Providers interface {
	// ListProviderLinks returns the federated identities of an account in
	// link order.
	ListProviderLinks(ctx context.Context, localID string) ([]domain.ProviderLink, error)

	// GetProviderLink finds the account owning a federated identity.
	GetProviderLink(ctx context.Context, providerID, federatedID string) (domain.ProviderLink, error)

	// LinkProvider attaches a federated identity. A federated id already
	// linked anywhere yields ErrAlreadyExists.
	LinkProvider(ctx context.Context, l domain.ProviderLink) error

	// UnlinkProvider detaches every identity of providerID from an account.
	UnlinkProvider(ctx context.Context, localID, providerID string) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllAccountRefreshTokens is used when the password changes.
	RevokeAllAccountRefreshTokens(ctx context.Context, localID string) error

	// DeleteExpiredRefreshTokens removes expired and revoked tokens.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type OobCodes interface {
	// CreateOobCode stores a code that would have been emailed.
	CreateOobCode(ctx context.Context, c domain.OobCode) error

	// GetOobCode returns an unexpired code.
	GetOobCode(ctx context.Context, code string) (domain.OobCode, error)

	// DeleteOobCode consumes a code.
	DeleteOobCode(ctx context.Context, code string) error

	// ListOobCodes returns every unexpired code, oldest first.
	ListOobCodes(ctx context.Context) ([]domain.OobCode, error)

	// DeleteExpiredOobCodes is housekeeping.
	DeleteExpiredOobCodes(ctx context.Context) error
}
