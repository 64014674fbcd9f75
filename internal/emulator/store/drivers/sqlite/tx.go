package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store"
)

// Tx starts a read/write transaction. The caller must Commit or Rollback.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	return &txStore{tx: tx}, nil
}

// WithTx runs fn in a transaction and commits when it returns nil. Service
// operations that touch more than one table (an account plus its refresh
// tokens, a code plus the account it confirms) go through here.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("sqlite: rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// txStore runs every repository against one *sql.Tx. Lifecycle methods of
// the outer Store are inert here.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Accounts() store.Accounts           { return &accountsRepo{q: t.tx} }
func (t *txStore) Providers() store.Providers         { return &providersRepo{q: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: t.tx} }
func (t *txStore) OobCodes() store.OobCodes           { return &oobCodesRepo{q: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, store.ErrNestedTx }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return store.ErrNestedTx }

func (t *txStore) ApplyMigrations() error     { return store.ErrNestedTx }
func (t *txStore) Ping(context.Context) error { return nil }
func (t *txStore) Close() error               { return nil }
